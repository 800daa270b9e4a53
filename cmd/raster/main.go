// raster - offline software rasterizer
//
// Loads a triangle mesh (OBJ or GLB) plus a diffuse and a tangent-space
// normal texture, runs the two-pass shadow-mapped Phong render, and writes
// the result to a PNG file.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/raster/pkg/math3d"
	"github.com/taigrr/raster/pkg/models"
	"github.com/taigrr/raster/pkg/raster"
	"github.com/taigrr/raster/pkg/raster/wire"
)

var (
	diffusePath = flag.String("diffuse", "", "Path to diffuse texture (PNG/JPG)")
	normalPath  = flag.String("normal", "", "Path to tangent-space normal map (PNG/JPG)")
	outPath     = flag.String("out", "out.png", "Path to write the rendered PNG")
	width       = flag.Int("width", 800, "Output image width")
	height      = flag.Int("height", 800, "Output image height")

	eyeFlag    = flag.String("eye", "1,1,3", "Camera eye position, \"x,y,z\"")
	centerFlag = flag.String("center", "0,0,0", "Camera look-at target, \"x,y,z\"")
	upFlag     = flag.String("up", "0,1,0", "Camera up vector, \"x,y,z\"")
	lightFlag  = flag.String("light", "1,1,1", "Light direction / light-camera position, \"x,y,z\"")

	displayDepth = flag.Bool("depth", false, "Write the depth-visualization buffer instead of the color buffer")
	preview      = flag.Bool("preview", false, "Additionally preview the finished frame in the terminal")
	wireframe    = flag.Bool("wireframe", false, "Overlay the mesh's triangle edges on the finished frame")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "raster - offline software rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: raster [options] <mesh.obj|mesh.glb>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(meshPath string) error {
	mesh, err := loadMesh(meshPath)
	if err != nil {
		return fmt.Errorf("load mesh: %w", err)
	}
	mesh.CalculateBounds()

	diffuse, err := loadTexture(*diffusePath, *width, *height)
	if err != nil {
		return fmt.Errorf("load diffuse texture: %w", err)
	}
	normal, err := loadTexture(*normalPath, *width, *height)
	if err != nil {
		return fmt.Errorf("load normal texture: %w", err)
	}

	// An explicit -diffuse always wins for the whole mesh. Otherwise, if
	// the asset defines per-face materials with their own diffuse
	// textures, use those instead of the flat fallback.
	var materialDiffuse map[int]*raster.Texture
	if *diffusePath == "" && mesh.MaterialCount() > 0 {
		materialDiffuse = loadMaterialTextures(mesh)
	}

	eye, err := parseVec3(*eyeFlag)
	if err != nil {
		return fmt.Errorf("-eye: %w", err)
	}
	center, err := parseVec3(*centerFlag)
	if err != nil {
		return fmt.Errorf("-center: %w", err)
	}
	up, err := parseVec3(*upFlag)
	if err != nil {
		return fmt.Errorf("-up: %w", err)
	}
	lightDir, err := parseVec3(*lightFlag)
	if err != nil {
		return fmt.Errorf("-light: %w", err)
	}

	state := raster.RendererState{
		Eye:             eye,
		Center:          center,
		Up:              up,
		LightDir:        lightDir,
		Mesh:            mesh,
		Diffuse:         diffuse,
		Normal:          normal,
		MaterialDiffuse: materialDiffuse,
	}

	which := raster.DisplayFrame
	if *displayDepth {
		which = raster.DisplayDepth
	}
	state.DisplayBuffer = which

	scene := raster.NewScene(*width, *height)
	scene.Render(state)

	if *wireframe && which == raster.DisplayFrame {
		drawWireframe(scene, mesh)
	}

	if err := scene.FB.SavePNG(*outPath, which); err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d polys)\n", *outPath, mesh.TriangleCount())

	if *preview {
		if err := previewTerminal(scene.FB, which); err != nil {
			fmt.Fprintf(os.Stderr, "preview failed: %v\n", err)
		}
	}
	return nil
}

// wireColor is the overlay edge color -wireframe draws: opaque magenta, so
// edges read clearly against any diffuse texture.
const wireColor raster.Color = 0xFF00FFFF

// drawWireframe projects every face of mesh through the scene's most
// recent beauty-pass camera matrix and draws its three screen-space edges
// into the framebuffer, using the same clip-to-screen math Rasterize
// applies internally.
func drawWireframe(scene *raster.Scene, mesh *models.Mesh) {
	clipFromWorld := scene.CameraClipFromWorld()
	viewport := scene.FB.Viewport

	project := func(p math3d.Vec3) (int, int) {
		screen := viewport.MulVec4(clipFromWorld.MulVec4(math3d.V4FromV3(p, 1)))
		if screen.W == 0 {
			return int(screen.X), int(screen.Y)
		}
		return int(screen.X / screen.W), int(screen.Y / screen.W)
	}

	for i := range mesh.Faces {
		p0, _, _ := mesh.FaceVertex(i, 0)
		p1, _, _ := mesh.FaceVertex(i, 1)
		p2, _, _ := mesh.FaceVertex(i, 2)
		x0, y0 := project(p0)
		x1, y1 := project(p1)
		x2, y2 := project(p2)
		wire.DrawTriangle(scene.FB, x0, y0, x1, y1, x2, y2, wireColor)
	}
}

// previewTerminal draws one finished frame to the terminal. This is a
// single presentation call, not an event loop or animation: both are
// explicit Non-goals the core rasterizer never crosses.
func previewTerminal(fb *raster.Framebuffer, which raster.DisplayBuffer) error {
	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	defer term.Shutdown()

	term.EnterAltScreen()
	defer term.ExitAltScreen()
	term.HideCursor()

	area := uv.Rect(0, 0, cols, rows)
	fb.DrawTerminal(term, area, which)
	term.Display()

	fmt.Fprintln(os.Stderr, "press Enter to exit preview")
	fmt.Scanln()
	return nil
}

func loadMesh(path string) (*models.Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return models.LoadOBJ(path)
	case ".glb", ".gltf":
		return models.LoadGLB(path)
	default:
		return nil, fmt.Errorf("unrecognized mesh extension %q (want .obj, .glb or .gltf)", ext)
	}
}

// loadMaterialTextures resolves every material in mesh that declares its
// own diffuse texture into a loaded Texture, keyed by Mesh.Materials
// index. Materials with no texture, or whose texture fails to load, are
// left out of the map; their faces fall back to the mesh-wide diffuse.
func loadMaterialTextures(mesh *models.Mesh) map[int]*raster.Texture {
	out := make(map[int]*raster.Texture)
	for i := range mesh.MaterialCount() {
		mat := mesh.GetMaterial(i)
		if mat == nil || !mat.HasTexture || mat.DiffuseTexture == "" {
			continue
		}
		tex, err := raster.LoadTexture(mat.DiffuseTexture)
		if err != nil {
			fmt.Fprintf(os.Stderr, "material %q: load diffuse texture %q: %v\n", mat.Name, mat.DiffuseTexture, err)
			continue
		}
		out[i] = tex
	}
	return out
}

func loadTexture(path string, fallbackW, fallbackH int) (*raster.Texture, error) {
	if path == "" {
		return raster.NewTexture(fallbackW, fallbackH), nil
	}
	return raster.LoadTexture(path)
}

func parseVec3(s string) (math3d.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math3d.Vec3{}, fmt.Errorf("want \"x,y,z\", got %q", s)
	}
	var v [3]float64
	for i, p := range parts {
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%g", &v[i]); err != nil {
			return math3d.Vec3{}, fmt.Errorf("parse %q: %w", p, err)
		}
	}
	return math3d.V3(v[0], v[1], v[2]), nil
}

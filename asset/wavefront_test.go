package asset

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/achilleasa/embers/types"
)

const triangleObj = `
o testObj
v 0 0 0
v 1 0 0
v 0 1 0
vn 1 0 0
vt 0 0
vn 0 1 0
vt 0 1
vn 0 1 0
vt 1 0
vn 0 0 1
# Comment
f 1/1/1 2/2/2 -1/-1/-1
`

func TestFloat32Parser(t *testing.T) {
	expError := `unsupported syntax for "v"; expected 1 argument; got 0`
	_, err := parseFloat32([]string{"v"})
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}

	_, err = parseFloat32([]string{"v", "not-a-float"})
	if err == nil {
		t.Fatal("expected to get a parse error")
	}

	v, err := parseFloat32([]string{"v", "3.14"})
	if err != nil {
		t.Fatal(err)
	}
	if v != 3.14 {
		t.Fatalf("expected parsed value to be 3.14; got %f", v)
	}
}

func TestVec3Parser(t *testing.T) {
	expError := `unsupported syntax for "v"; expected 3 arguments; got 0`
	_, err := parseVec3([]string{"v"})
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}

	_, err = parseVec3([]string{"v", "not-a-float", "2", "3"})
	if err == nil {
		t.Fatal("expected to get a parse error")
	}

	v, err := parseVec3([]string{"v", "3.14", "0", "0.4"})
	if err != nil {
		t.Fatal(err)
	}
	expVal := types.Vec3{3.14, 0, 0.4}
	if !reflect.DeepEqual(v, expVal) {
		t.Fatalf("expected parsed value to be %v; got %v", expVal, v)
	}
}

func TestSelectFaceCoordinate(t *testing.T) {
	expError := "index out of bounds"
	type spec struct {
		in        string
		listLen   int
		relOffset int
		out       int
		expError  string
	}
	specs := []spec{
		{"2", 1, 0, -1, expError},
		{"-2", 1, 0, -1, expError},
		{"1", 10, 0, 0, ""}, // indices are 1-based
		{"-1", 10, 0, 9, ""},
		{"1", 10, 4, 4, ""},
		{"7", 10, 4, -1, expError},
	}

	for idx, s := range specs {
		v, err := selectFaceCoordIndex(s.in, s.listLen, s.relOffset)
		if s.expError != "" && (err == nil || err.Error() != s.expError) {
			t.Fatalf("[spec %d] expected error %s; got %v", idx, s.expError, err)
		} else if v != s.out {
			t.Fatalf("[spec %d] expected index to be %d; got %d", idx, s.out, v)
		}
	}
}

func TestParseSingleFacedObject(t *testing.T) {
	model, err := newWavefrontReader(context.Background()).Read(mockResource(triangleObj))
	if err != nil {
		t.Fatal(err)
	}

	if len(model.Meshes) != 1 {
		t.Fatalf("expected 1 mesh to be parsed; got %d", len(model.Meshes))
	}
	mesh0 := model.Meshes[0]
	if mesh0.Name != "testObj" {
		t.Fatalf("expected mesh[0] name to be 'testObj'; got %s", mesh0.Name)
	}
	if len(mesh0.Faces) != 1 {
		t.Fatalf("expected mesh[0] to contain 1 face; got %d", len(mesh0.Faces))
	}

	// Faces without a material use the default one.
	if len(model.Materials) != 1 || mesh0.Faces[0].Material != 0 {
		t.Fatalf("expected the default material to be assigned; got %d materials", len(model.Materials))
	}

	expPoints := [3]types.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	expNormals := [3]types.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	face := mesh0.Faces[0]
	if face.Vertices != expPoints {
		t.Fatalf("expected vertices %v; got %v", expPoints, face.Vertices)
	}
	if face.Normals != expNormals {
		t.Fatalf("expected normals %v; got %v", expNormals, face.Normals)
	}

	expBBox := [2]types.Vec3{{0, 0, 0}, {1, 1, 0}}
	if bbox := model.BBox(); bbox != expBBox {
		t.Fatalf("expected bbox %v; got %v", expBBox, bbox)
	}
}

func TestParseQuadAndGeneratedNormals(t *testing.T) {
	payload := `
g quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
g empty
`
	model, err := newWavefrontReader(context.Background()).Read(mockResource(payload))
	if err != nil {
		t.Fatal(err)
	}

	// The empty trailing group is dropped.
	if len(model.Meshes) != 1 {
		t.Fatalf("expected 1 mesh; got %d", len(model.Meshes))
	}
	if model.TriangleCount() != 2 {
		t.Fatalf("expected quad to be split into 2 triangles; got %d", model.TriangleCount())
	}
	for i, face := range model.Meshes[0].Faces {
		for _, n := range face.Normals {
			if !n.ApproxEqual(types.XYZ(0, 0, 1)) {
				t.Fatalf("expected generated normal of face %d to be +Z; got %v", i, n)
			}
		}
	}
}

func TestParseFaceErrors(t *testing.T) {
	type spec struct {
		payload  string
		expError string
	}
	specs := []spec{
		{"v 0 0 0\nf 1 1", `[embedded: 2] error: unsupported syntax for "f"; expected 3 arguments for triangular face or 4 arguments for a quad face; got 2. Select the triangulation option in your exporter`},
		{"v 0 0 0\nf 1 1/1 1", "[embedded: 2] error: expected each face argument to contain 1 indices; arg 1 contains 2 indices"},
		{"v 0 0 0\nf 1 2 1", "[embedded: 2] error: could not parse vertex coord for face argument 1: index out of bounds"},
		{"usemtl missing", `[embedded: 1] error: undefined material with name "missing"`},
		{"v 0 0", `[embedded: 1] error: unsupported syntax for "v"; expected 3 arguments; got 2`},
	}

	for idx, s := range specs {
		_, err := newWavefrontReader(context.Background()).Read(mockResource(s.payload))
		if err == nil || err.Error() != s.expError {
			t.Fatalf("[spec %d] expected error %q; got %v", idx, s.expError, err)
		}
	}
}

func TestMaterialLoaderMissingNewMaterialCommand(t *testing.T) {
	err := newWavefrontReader(context.Background()).parseMaterials(mockResource(`Kd 1.0 1.0 1.0`))

	expError := `[embedded: 1] error: got "Kd" without a "newmtl"`
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get error: %s; got %v", expError, err)
	}
}

func TestMaterialLoaderInvalidVec3Param(t *testing.T) {
	payload := `
	newmtl foo
	Kd 1.0`
	err := newWavefrontReader(context.Background()).parseMaterials(mockResource(payload))

	expError := `[embedded: 3] error: unsupported syntax for "Kd"; expected 3 arguments; got 1`
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get error: %s; got %v", expError, err)
	}
}

func TestMaterialLoaderSuccess(t *testing.T) {
	payload := `
	# comment
	newmtl foo
	Kd 1.0 1.0 1.0
	Ks 0.1 0.2 0.3
	Ke 0.4    0.5 0.6
	Ns 10
	d 0.5
	map_Kd ignored.png
	illum 2`
	r := newWavefrontReader(context.Background())
	if err := r.parseMaterials(mockResource(payload)); err != nil {
		t.Fatal(err)
	}

	if len(r.model.Materials) != 1 {
		t.Fatalf("expected to parse 1 material; got %d", len(r.model.Materials))
	}

	exp := &Material{
		Name:  "foo",
		Kd:    types.Vec3{1, 1, 1},
		Ks:    types.Vec3{0.1, 0.2, 0.3},
		Ke:    types.Vec3{0.4, 0.5, 0.6},
		Ns:    10,
		D:     0.5,
		KdTex: "ignored.png",
	}
	if !reflect.DeepEqual(r.model.Materials[0], exp) {
		t.Fatalf("expected material %+v; got %+v", exp, r.model.Materials[0])
	}
	if r.model.Materials[0].KdTexture != nil {
		t.Fatal("expected missing map_Kd texture to be skipped")
	}

	if err := r.parseMaterials(mockResource("newmtl foo")); err == nil || !strings.Contains(err.Error(), `material "foo" already defined`) {
		t.Fatalf("expected duplicate material error; got %v", err)
	}
}

func TestIncludeErrorStack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ship.obj":
			w.Write([]byte("mtllib ship.mtl\nusemtl hull\nv 0 0 0\nv 1 0 0\nv 0 0 1\nf 1 2 3\n"))
		case "/ship.mtl":
			w.Write([]byte("newmtl hull\nKd 0.1\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	_, err := LoadModel(server.URL + "/ship.obj")
	expError := "[" + server.URL + "/ship.mtl: 2] error: unsupported syntax for \"Kd\"; expected 3 arguments; got 1\n" +
		"referenced from " + server.URL + "/ship.obj:1 [mtllib]"
	if err == nil || err.Error() != expError {
		t.Fatalf("expected error:\n%s\ngot:\n%v", expError, err)
	}
}

func writeModelFiles(t *testing.T, dir string) string {
	files := map[string]string{
		"shuttle.obj": "mtllib shuttle.mtl\no hull\nusemtl white\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\nusemtl red\nf 3 2 1\n",
		"shuttle.mtl": "newmtl white\nKd 1 1 1\nnewmtl red\nKd 1 0 0\n",
	}
	for name, payload := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(payload), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "shuttle.obj")
}

func TestLoadModelWithMaterials(t *testing.T) {
	model, err := LoadModel(writeModelFiles(t, t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}

	if model.Name != "shuttle.obj" {
		t.Fatalf("expected model name to be shuttle.obj; got %s", model.Name)
	}

	meshes := model.RenderMeshes(types.XYZ(0, 1, 0), types.XYZ(0, -90, 0), 2)
	if len(meshes) != 1 || len(meshes[0].Triangles) != 2 {
		t.Fatalf("expected 1 render mesh with 2 triangles; got %d meshes", len(meshes))
	}

	expColors := []types.Vec3{{1, 1, 1}, {1, 0, 0}}
	for i, tri := range meshes[0].Triangles {
		if tri.Color != expColors[i] {
			t.Fatalf("expected triangle %d color %v; got %v", i, expColors[i], tri.Color)
		}
	}

	// Scale by 2, rotate -90 deg about Y, then translate by (0, 1, 0).
	got := meshes[0].Transform.TransformPoint(types.XYZ(1, 0, 0))
	exp := types.XYZ(0, 1, 2)
	if !got.ApproxEqual(exp) {
		t.Fatalf("expected transformed point %v; got %v", exp, got)
	}
}

func TestLoadModelFromZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, payload := range map[string]string{
		"models/shuttle.obj": "mtllib shuttle.mtl\nusemtl red\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n",
		"models/shuttle.mtl": "newmtl red\nKd 1 0 0\n",
		"README":             "ignored",
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(payload))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	archive := filepath.Join(t.TempDir(), "shuttle.zip")
	if err := os.WriteFile(archive, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	model, err := LoadModel(archive)
	if err != nil {
		t.Fatal(err)
	}
	if model.TriangleCount() != 1 {
		t.Fatalf("expected 1 triangle; got %d", model.TriangleCount())
	}
	if kd := model.Materials[model.Meshes[0].Faces[0].Material].Kd; kd != (types.Vec3{1, 0, 0}) {
		t.Fatalf("expected face to use the red material; got %v", kd)
	}
}

func TestLoadModelUnsupportedFormat(t *testing.T) {
	if _, err := LoadModel("model.fbx"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat; got %v", err)
	}
}

func TestLoadModelAsync(t *testing.T) {
	path := writeModelFiles(t, t.TempDir())

	select {
	case res, ok := <-LoadModelAsync(context.Background(), path):
		if !ok || res.Err != nil {
			t.Fatalf("expected a successful result; got %v (ok: %t)", res.Err, ok)
		}
		if res.Model.TriangleCount() != 2 {
			t.Fatalf("expected 2 triangles; got %d", res.Model.TriangleCount())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for async model load")
	}

	res := <-LoadModelAsync(context.Background(), filepath.Join(t.TempDir(), "missing.obj"))
	if res.Err == nil || !os.IsNotExist(res.Err) {
		t.Fatalf("expected a not-exist error; got %v", res.Err)
	}
}

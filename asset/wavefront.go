package asset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/embers/log"
	"github.com/achilleasa/embers/types"
)

// Opens a file referenced from within another resource (mtllib, call).
type includeOpener func(ctx context.Context, path string, relTo *Resource) (*Resource, error)

type wavefrontReader struct {
	logger log.Logger
	ctx    context.Context
	open   includeOpener

	model *Model

	// A map of material names to indices in model.Materials.
	matNameToIndex map[string]int

	// Currently selected material index or -1 if none is selected.
	curMaterial int

	// List of vertices and normals. Texture coordinates are parsed for
	// validation but not kept.
	vertexList []types.Vec3
	normalList []types.Vec3
	uvCount    int

	// An error stack that provides additional error information when
	// model files include other files (models, mat libs e.t.c)
	errStack []string
}

// Create a new wavefront reader. Includes are resolved relative to the
// including resource.
func newWavefrontReader(ctx context.Context) *wavefrontReader {
	return &wavefrontReader{
		logger:         log.New("wavefront reader"),
		ctx:            ctx,
		open:           NewResourceContext,
		model:          &Model{},
		matNameToIndex: make(map[string]int),
		curMaterial:    -1,
	}
}

// Read a model definition.
func (r *wavefrontReader) Read(res *Resource) (*Model, error) {
	r.logger.Noticef(`parsing model from "%s"`, res.Path())
	start := time.Now()

	r.model.Name = res.Base()
	if err := r.parse(res); err != nil {
		return nil, err
	}

	r.logger.Noticef(
		"parsed %d meshes (%d triangles) in %d ms",
		len(r.model.Meshes), r.model.TriangleCount(), time.Since(start).Nanoseconds()/1e6,
	)
	return r.model, nil
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n"))
	} else {
		errMsg = fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n"))
	}

	return errors.New(strings.Trim(errMsg, "\n"))
}

// Push a frame to the error stack.
func (r *wavefrontReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Select the default material, creating it on first use.
func (r *wavefrontReader) defaultMaterial() int {
	matIndex, exists := r.matNameToIndex[""]
	if !exists {
		r.model.Materials = append(r.model.Materials, defaultMaterial())
		matIndex = len(r.model.Materials) - 1
		r.matNameToIndex[""] = matIndex
	}
	return matIndex
}

// Parse wavefront object format.
func (r *wavefrontReader) parse(res *Resource) error {
	var lineNum int

	// An included object file uses 1-based indices relative to its own
	// coordinates. Tracking the list lengths when parsing starts lets us
	// apply the proper offset while parsing faces.
	relVertexOffset := len(r.vertexList)
	relNormalOffset := len(r.normalList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		if lineNum%4096 == 0 {
			if err := r.ctx.Err(); err != nil {
				return err
			}
		}

		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call", "mtllib":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}
			if err := r.include(res, lineNum, lineTokens[0], lineTokens[1]); err != nil {
				return err
			}
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matIndex, exists := r.matNameToIndex[lineTokens[1]]
			if !exists {
				return r.emitError(res.Path(), lineNum, `undefined material with name "%s"`, lineTokens[1])
			}
			r.curMaterial = matIndex
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.normalList = append(r.normalList, v)
		case "vt":
			if _, err := parseVec2(lineTokens); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.uvCount++
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.verifyLastParsedMesh()
			r.model.Meshes = append(r.model.Meshes, &Mesh{Name: lineTokens[1]})
		case "f":
			faces, err := r.parseFace(lineTokens, relVertexOffset, relNormalOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			if len(r.model.Meshes) == 0 {
				r.model.Meshes = append(r.model.Meshes, &Mesh{Name: "default"})
			}
			mesh := r.model.Meshes[len(r.model.Meshes)-1]
			mesh.Faces = append(mesh.Faces, faces...)
		}
	}

	if err := scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}

	r.verifyLastParsedMesh()
	return nil
}

// Open and parse a file referenced by a "call" or "mtllib" statement.
func (r *wavefrontReader) include(res *Resource, lineNum int, stmt, path string) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}

	r.pushFrame(fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, stmt))

	incRes, err := r.open(r.ctx, path, res)
	if err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}
	defer incRes.Close()

	switch stmt {
	case "call":
		err = r.parse(incRes)
	case "mtllib":
		err = r.parseMaterials(incRes)
	}
	if err != nil {
		return err
	}

	r.popFrame()
	return nil
}

// Drop the last parsed mesh if it contains no faces.
func (r *wavefrontReader) verifyLastParsedMesh() {
	lastMeshIndex := len(r.model.Meshes) - 1
	if lastMeshIndex >= 0 && len(r.model.Meshes[lastMeshIndex].Faces) == 0 {
		r.logger.Warningf(`dropping mesh "%s" as it contains no polygons`, r.model.Meshes[lastMeshIndex].Name)
		r.model.Meshes = r.model.Meshes[:lastMeshIndex]
	}
}

// Parse face definition. Each face definition consists of 3 or 4 vertex
// arguments. Each vertex argument is comprised of 1, 2 or 3 indices
// separated by a slash character:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate an offset off the end
// of the coordinate list. Quads are split into two triangles.
func (r *wavefrontReader) parseFace(lineTokens []string, relVertexOffset, relNormalOffset int) ([]Face, error) {
	if len(lineTokens) < 4 || len(lineTokens) > 5 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected 3 arguments for triangular face or 4 arguments for a quad face; got %d. Select the triangulation option in your exporter`, len(lineTokens)-1)
	}

	var vertices [4]types.Vec3
	var normals [4]types.Vec3
	expIndices := 0
	hasNormals := false
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return nil, fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		offset, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = r.vertexList[offset]

		if expIndices > 2 && vTokens[2] != "" {
			offset, err = selectFaceCoordIndex(vTokens[2], len(r.normalList), relNormalOffset)
			if err != nil {
				return nil, fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
			normals[arg] = r.normalList[offset]
			hasNormals = true
		}
	}

	if r.curMaterial < 0 {
		r.curMaterial = r.defaultMaterial()
	}

	faces := make([]Face, 0, 2)
	indiceList := [][3]int{{0, 1, 2}}
	if len(lineTokens) == 5 {
		indiceList = append(indiceList, [3]int{0, 2, 3})
	}

	for _, indices := range indiceList {
		face := Face{Material: r.curMaterial}
		for triIndex, selectIndex := range indices {
			face.Vertices[triIndex] = vertices[selectIndex]
			face.Normals[triIndex] = normals[selectIndex]
		}

		// Generate normals from the vertices when the face does not specify them
		if !hasNormals {
			n := face.Normal()
			face.Normals = [3]types.Vec3{n, n, n}
		}
		faces = append(faces, face)
	}

	return faces, nil
}

// Parse a wavefront material library.
func (r *wavefrontReader) parseMaterials(res *Resource) error {
	var lineNum int
	var err error

	r.logger.Infof(`parsing material library "%s"`, res.Path())

	scanner := bufio.NewScanner(res)

	var curMaterial *Material
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		if lineTokens[0] == "newmtl" {
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName := lineTokens[1]
			if _, exists := r.matNameToIndex[matName]; exists {
				return r.emitError(res.Path(), lineNum, `material "%s" already defined`, matName)
			}

			curMaterial = &Material{Name: matName, D: 1}
			r.model.Materials = append(r.model.Materials, curMaterial)
			r.matNameToIndex[matName] = len(r.model.Materials) - 1
			continue
		}

		if curMaterial == nil {
			return r.emitError(res.Path(), lineNum, `got "%s" without a "newmtl"`, lineTokens[0])
		}

		switch lineTokens[0] {
		case "Kd":
			curMaterial.Kd, err = parseVec3(lineTokens)
		case "Ks":
			curMaterial.Ks, err = parseVec3(lineTokens)
		case "Ke":
			curMaterial.Ke, err = parseVec3(lineTokens)
		case "Ns":
			curMaterial.Ns, err = parseFloat32(lineTokens)
		case "d":
			curMaterial.D, err = parseFloat32(lineTokens)
		case "Tr":
			var tr float32
			tr, err = parseFloat32(lineTokens)
			curMaterial.D = 1 - tr
		case "map_Kd":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}
			// Texture options may precede the file name
			curMaterial.KdTex = lineTokens[len(lineTokens)-1]
			curMaterial.KdTexture = r.loadTexture(res, lineNum, curMaterial.KdTex)
		default:
			// Other texture maps, illumination models and the like are
			// not used for flat shading.
			r.logger.Debugf(`[%s: %d] ignoring "%s"`, res.Path(), lineNum, lineTokens[0])
		}

		if err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err.Error())
		}
	}

	return scanner.Err()
}

// Load a texture relative to the material library. Textures only tint the
// diffuse color so a texture that cannot be loaded is reported and skipped.
func (r *wavefrontReader) loadTexture(res *Resource, lineNum int, texPath string) *Texture {
	texRes, err := r.open(r.ctx, texPath, res)
	if err != nil {
		r.logger.Warningf(`[%s: %d] skipping texture "%s": %s`, res.Path(), lineNum, texPath, err.Error())
		return nil
	}
	defer texRes.Close()

	tex, err := NewTexture(texRes)
	if err != nil {
		r.logger.Warningf(`[%s: %d] skipping texture "%s": %s`, res.Path(), lineNum, texPath, err.Error())
		return nil
	}
	return tex
}

// Given an index for a face coord type (vertex, normal, tex) calculate the
// proper offset into the coord list. Wavefront format can also use negative
// indices to reference elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var offset int
	if index < 0 {
		offset = coordListLen + int(index)
	} else {
		offset = relOffset + int(index-1)
	}
	if offset < 0 || offset >= coordListLen {
		return -1, errors.New("index out of bounds")
	}
	return offset, nil
}

// Parse a float scalar value.
func parseFloat32(lineTokens []string) (float32, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	val, err := strconv.ParseFloat(lineTokens[1], 32)
	if err != nil {
		return 0, err
	}

	return float32(val), nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}

// Parse a Vec2 row.
func parseVec2(lineTokens []string) (types.Vec2, error) {
	if len(lineTokens) < 3 {
		return types.Vec2{}, fmt.Errorf(`unsupported syntax for "%s"; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec2{}
	for tokIdx := 1; tokIdx <= 2; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}

package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/aclements/sunhours/geom"
	"github.com/aclements/sunhours/internal/config"
)

// loadBuildings builds the scene from its config, reading any STL
// meshes from disk.
func loadBuildings(cfgs []config.BuildingConfig, log *zap.Logger) ([]*geom.Building, error) {
	var out []*geom.Building
	for i, bc := range cfgs {
		name := bc.Name
		if name == "" {
			name = fmt.Sprintf("building %d", i)
		}
		var b *geom.Building
		var err error
		if bc.STL != "" {
			b, err = loadSTL(bc.STL, bc.Scale)
		} else {
			b, err = geom.NewExtruded(bc.Base(), bc.Height)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		log.Debug("loaded building",
			zap.String("name", name),
			zap.Bool("extruded", b.Extruded()),
			zap.Int("triangles", len(b.Triangles())))
		out = append(out, b)
	}
	return out, nil
}

func loadSTL(path string, scale float64) (*geom.Building, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	mesh, err := geom.ReadSTL(f)
	if err != nil {
		return nil, err
	}
	if scale != 0 && scale != 1 {
		mesh.Scale(scale)
	}
	return geom.NewMesh(mesh.Triangles())
}

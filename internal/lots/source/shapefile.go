package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"

	"github.com/JonMunkholm/pacificsands/internal/lots"
)

// DBF attribute names read from a plat shapefile. DBF limits names to ten
// characters, hence ELEV_M.
const (
	AttrLotNumber = "LOT_NUMBER"
	AttrType      = "TYPE"
	AttrArea      = "AREA_M2"
	AttrFrontage  = "FRONTAGE_M"
	AttrStatus    = "STATUS"
	AttrView      = "VIEW"
	AttrElevation = "ELEV_M"
)

var shapefileAttrs = []string{AttrLotNumber, AttrType, AttrArea, AttrFrontage, AttrStatus, AttrView, AttrElevation}

// Shapefile reads lots from the attribute table of a GIS plat export
// (.shp with its .dbf sidecar). Geometry is ignored; record order is the
// source order.
type Shapefile struct {
	Path string
}

func (s *Shapefile) Name() string { return "shapefile:" + s.Path }

func (s *Shapefile) Fetch(ctx context.Context) ([]lots.Lot, error) {
	r, err := shp.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile %s: %w", s.Path, err)
	}
	defer r.Close()

	index := make(map[string]int)
	for i, f := range r.Fields() {
		index[strings.ToUpper(strings.TrimSpace(f.String()))] = i
	}
	for _, name := range shapefileAttrs {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("shapefile %s: missing attribute %s", s.Path, name)
		}
	}

	out := []lots.Lot{}
	for r.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, _ := r.Shape()
		attr := func(name string) string {
			return strings.Trim(r.ReadAttribute(row, index[name]), " \x00")
		}

		l := lots.Lot{
			LotNumber: attr(AttrLotNumber),
			Type:      attr(AttrType),
			Status:    attr(AttrStatus),
			View:      attr(AttrView),
		}
		for _, num := range []struct {
			name string
			dst  *float64
		}{
			{AttrArea, &l.AreaM2},
			{AttrFrontage, &l.FrontageM},
			{AttrElevation, &l.ElevationM},
		} {
			v, err := strconv.ParseFloat(attr(num.name), 64)
			if err != nil {
				return nil, fmt.Errorf("shapefile %s: record %d: invalid number %s: %w", s.Path, row, num.name, err)
			}
			*num.dst = v
		}
		out = append(out, l)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("read shapefile %s: %w", s.Path, err)
	}
	return out, nil
}

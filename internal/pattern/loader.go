// Package pattern bootstraps a design session: it reads blast-hole and KAD
// CSV files, seeds the entity store, fixes the local origin from the first
// loaded position, and debounces dirty signals for the save layer.
package pattern

import (
	"encoding/csv"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/openblast/kadview/internal/model"
	"github.com/openblast/kadview/internal/transform"
)

// ReadHoles parses a blast-hole CSV:
//
//	entity,hole,x,y,z,length,angle,bearing,subdrill,diameter[,from,delay_ms]
//
// Lines starting with '#' are comments. Holes are constructed through the
// model constructor so derived geometry is consistent on load.
func ReadHoles(r io.Reader) ([]*model.BlastHole, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var holes []*model.BlastHole
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("holes csv: %w", err)
		}
		line++
		if len(rec) < 10 {
			return nil, fmt.Errorf("holes csv record %d: expected at least 10 fields, got %d", line, len(rec))
		}

		nums := make([]float64, 8)
		for i := 0; i < 8; i++ {
			v, err := strconv.ParseFloat(rec[i+2], 64)
			if err != nil {
				return nil, fmt.Errorf("holes csv record %d field %d: %w", line, i+3, err)
			}
			nums[i] = v
		}

		collar := transform.WorldPoint{X: nums[0], Y: nums[1], Z: nums[2]}
		h, err := model.NewBlastHole(rec[0], rec[1], collar, nums[3], nums[4], nums[5], nums[6], nums[7])
		if err != nil {
			return nil, fmt.Errorf("holes csv record %d (%s:%s): %w", line, rec[0], rec[1], err)
		}
		if len(rec) >= 11 {
			h.FromHoleID = rec[10]
		}
		if len(rec) >= 12 && rec[11] != "" {
			delay, err := strconv.ParseFloat(rec[11], 64)
			if err != nil {
				return nil, fmt.Errorf("holes csv record %d delay: %w", line, err)
			}
			h.DelayMS = delay
		}
		holes = append(holes, h)
	}
	return holes, nil
}

// ReadKAD parses a KAD drawing CSV; consecutive rows sharing a name form one
// entity:
//
//	name,kind,x,y,z,color,width[,radius | text,font_height]
func ReadKAD(r io.Reader) ([]*model.KADEntity, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var entities []*model.KADEntity
	var current *model.KADEntity
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("kad csv: %w", err)
		}
		line++
		if len(rec) < 7 {
			return nil, fmt.Errorf("kad csv record %d: expected at least 7 fields, got %d", line, len(rec))
		}

		kind, err := parseKind(rec[1])
		if err != nil {
			return nil, fmt.Errorf("kad csv record %d: %w", line, err)
		}

		coords := make([]float64, 3)
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(rec[i+2], 64)
			if err != nil {
				return nil, fmt.Errorf("kad csv record %d field %d: %w", line, i+3, err)
			}
			coords[i] = v
		}
		col, err := parseHexColor(rec[5])
		if err != nil {
			return nil, fmt.Errorf("kad csv record %d: %w", line, err)
		}
		width, err := strconv.ParseFloat(rec[6], 64)
		if err != nil {
			return nil, fmt.Errorf("kad csv record %d width: %w", line, err)
		}

		if current == nil || current.Name != rec[0] {
			current = &model.KADEntity{Name: rec[0], Kind: kind}
			entities = append(entities, current)
		}

		el := model.Element{
			PointID:   len(current.Elements),
			Position:  transform.WorldPoint{X: coords[0], Y: coords[1], Z: coords[2]},
			Color:     col,
			LineWidth: width,
		}
		switch kind {
		case model.KindCircle:
			if len(rec) >= 8 {
				el.Radius, err = strconv.ParseFloat(rec[7], 64)
				if err != nil {
					return nil, fmt.Errorf("kad csv record %d radius: %w", line, err)
				}
			}
		case model.KindText:
			if len(rec) >= 8 {
				el.Text = rec[7]
			}
			if len(rec) >= 9 {
				el.FontHeight, err = strconv.ParseFloat(rec[8], 64)
				if err != nil {
					return nil, fmt.Errorf("kad csv record %d font height: %w", line, err)
				}
			}
		case model.KindPoint, model.KindLine, model.KindPoly:
			// position-only kinds
		}
		current.Elements = append(current.Elements, el)
	}
	return entities, nil
}

func parseKind(s string) (model.EntityKind, error) {
	switch s {
	case "point":
		return model.KindPoint, nil
	case "line":
		return model.KindLine, nil
	case "poly":
		return model.KindPoly, nil
	case "circle":
		return model.KindCircle, nil
	case "text":
		return model.KindText, nil
	default:
		return 0, fmt.Errorf("unknown entity kind %q", s)
	}
}

func parseHexColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("color %q: expected #RRGGBB", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}

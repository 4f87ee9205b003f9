// Package road builds road geometry from a road description: the reference
// line with its elevation and superelevation, the lane offset, the lateral
// shape and the road objects.
//
// A description is a YAML document that mirrors the geometric records of an
// OpenDRIVE road. Decoding a full OpenDRIVE file is out of scope; the
// description holds just the records the geometry needs.
package road

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Description is a decoded road description.
type Description struct {
	ID             string       `yaml:"id"`
	PlanView       []Geometry   `yaml:"planView"`
	Elevation      []Polynomial `yaml:"elevation,omitempty"`
	Superelevation []Polynomial `yaml:"superelevation,omitempty"`
	LaneOffset     []Polynomial `yaml:"laneOffset,omitempty"`
	Shape          []Shape      `yaml:"shape,omitempty"`
	Objects        []Object     `yaml:"objects,omitempty"`
}

// Geometry is one plan view record. Exactly one of Line, Arc, Spiral and
// ParamPoly3 must be set.
type Geometry struct {
	S      float64 `yaml:"s"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Hdg    float64 `yaml:"hdg"`
	Length float64 `yaml:"length"`

	Line       *struct{}   `yaml:"line,omitempty"`
	Arc        *Arc        `yaml:"arc,omitempty"`
	Spiral     *Spiral     `yaml:"spiral,omitempty"`
	ParamPoly3 *ParamPoly3 `yaml:"paramPoly3,omitempty"`
}

type Arc struct {
	Curvature float64 `yaml:"curvature"`
}

type Spiral struct {
	CurvStart float64 `yaml:"curvStart"`
	CurvEnd   float64 `yaml:"curvEnd"`
}

// ParamPoly3 is a parametric cubic. PRange is either "arcLength" (the
// default) or "normalized".
type ParamPoly3 struct {
	AU     float64 `yaml:"aU"`
	BU     float64 `yaml:"bU"`
	CU     float64 `yaml:"cU"`
	DU     float64 `yaml:"dU"`
	AV     float64 `yaml:"aV"`
	BV     float64 `yaml:"bV"`
	CV     float64 `yaml:"cV"`
	DV     float64 `yaml:"dV"`
	PRange string  `yaml:"pRange,omitempty"`
}

// Polynomial is a cubic a + b·ds + c·ds² + d·ds³ starting at S.
type Polynomial struct {
	S float64 `yaml:"s"`
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
	C float64 `yaml:"c"`
	D float64 `yaml:"d"`
}

func (p Polynomial) coefficients() []float64 { return []float64{p.A, p.B, p.C, p.D} }

// Shape is a lateral profile record: a cubic in dt starting at T, belonging
// to the cross section at S.
type Shape struct {
	S float64 `yaml:"s"`
	T float64 `yaml:"t"`
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
	C float64 `yaml:"c"`
	D float64 `yaml:"d"`
}

// Object is a road object. Its outline is chosen from its dimensions: a
// positive radius gives a cylinder footprint, a positive height a cuboid and
// otherwise a rectangle. With Repeat set, the object is swept along the road
// instead.
type Object struct {
	ID      string  `yaml:"id"`
	Name    string  `yaml:"name,omitempty"`
	Type    string  `yaml:"type,omitempty"`
	S       float64 `yaml:"s"`
	T       float64 `yaml:"t"`
	ZOffset float64 `yaml:"zOffset,omitempty"`
	Hdg     float64 `yaml:"hdg,omitempty"`
	Pitch   float64 `yaml:"pitch,omitempty"`
	Roll    float64 `yaml:"roll,omitempty"`
	Length  float64 `yaml:"length,omitempty"`
	Width   float64 `yaml:"width,omitempty"`
	Height  float64 `yaml:"height,omitempty"`
	Radius  float64 `yaml:"radius,omitempty"`
	Repeat  *Repeat `yaml:"repeat,omitempty"`
}

// Repeat sweeps an object from S over Length. Start and end values are
// interpolated linearly.
type Repeat struct {
	S            float64 `yaml:"s"`
	Length       float64 `yaml:"length"`
	TStart       float64 `yaml:"tStart"`
	TEnd         float64 `yaml:"tEnd"`
	WidthStart   float64 `yaml:"widthStart"`
	WidthEnd     float64 `yaml:"widthEnd"`
	HeightStart  float64 `yaml:"heightStart,omitempty"`
	HeightEnd    float64 `yaml:"heightEnd,omitempty"`
	ZOffsetStart float64 `yaml:"zOffsetStart,omitempty"`
	ZOffsetEnd   float64 `yaml:"zOffsetEnd,omitempty"`
}

// Decode reads a description from r.
func Decode(r io.Reader) (Description, error) {
	var desc Description
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&desc); err != nil {
		return Description{}, fmt.Errorf("decoding road description: %w", err)
	}
	return desc, nil
}

// Load reads a description from a YAML file.
func Load(path string) (Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return Description{}, err
	}
	defer f.Close()
	desc, err := Decode(f)
	if err != nil {
		return Description{}, fmt.Errorf("%s: %w", path, err)
	}
	return desc, nil
}

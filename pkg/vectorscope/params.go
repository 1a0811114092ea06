package vectorscope

import (
	"github.com/fdimager/vectorscope/pkg/dsp/analysis"
	"github.com/fdimager/vectorscope/pkg/dsp/mix"
	"github.com/fdimager/vectorscope/pkg/framework/param"
)

// Parameter IDs
const (
	ParamSoloLeft uint32 = iota
	ParamSoloCenter
	ParamSoloRight
	ParamRotation
	ParamWidth
)

// parameters caches the registered parameters so the audio context reads
// their atomic values without going through the registry lock.
type parameters struct {
	soloLeft   *param.Parameter
	soloCenter *param.Parameter
	soloRight  *param.Parameter
	rotation   *param.Parameter
	width      *param.Parameter
}

func registerParameters(r *param.Registry) (parameters, error) {
	p := parameters{
		soloLeft:   param.SwitchParameter(ParamSoloLeft, "Solo L").Build(),
		soloCenter: param.SwitchParameter(ParamSoloCenter, "Solo C").Build(),
		soloRight:  param.SwitchParameter(ParamSoloRight, "Solo R").Build(),
		rotation: param.ReadoutParameter(ParamRotation, "Rotation",
			analysis.RotationMin, analysis.RotationMax, analysis.RotationDefault).Build(),
		width: param.ReadoutParameter(ParamWidth, "Width",
			analysis.WidthMin, analysis.WidthMax, analysis.WidthDefault).Build(),
	}

	err := r.Add(p.soloLeft, p.soloCenter, p.soloRight, p.rotation, p.width)
	return p, err
}

// solo loads the three switches as independent atomic reads.
func (p parameters) solo() mix.Solo {
	return mix.Solo{
		Left:   p.soloLeft.Bool(),
		Center: p.soloCenter.Bool(),
		Right:  p.soloRight.Bool(),
	}
}

func (p parameters) controls() analysis.Controls {
	return analysis.Controls{
		Rotation: p.rotation.Int(),
		Width:    p.width.Int(),
	}
}

func isControl(id uint32) bool {
	return id == ParamRotation || id == ParamWidth
}

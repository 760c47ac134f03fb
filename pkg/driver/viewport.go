package driver

import "github.com/drawbridge-dev/drawbridge/pkg/protocol"

// FitTransform computes the letterbox transform mapping the design-space
// canvas (vw, vh) onto a device surface of (dw, dh) pixels: uniform
// scale by the smaller axis ratio, centered along the slack axis.
//
//	s  = min(dw/vw, dh/vh)
//	tx = (dw - vw*s) / 2
//	ty = (dh - vh*s) / 2
//
// Equal aspect ratios give zero offsets; equal sizes give the identity.
func FitTransform(dw, dh, vw, vh uint32) protocol.Transform {
	sx := float64(dw) / float64(vw)
	sy := float64(dh) / float64(vh)
	s := sx
	if sy < sx {
		s = sy
	}
	tx := (float64(dw) - float64(vw)*s) / 2
	ty := (float64(dh) - float64(vh)*s) / 2
	return protocol.Transform{
		A: float32(s),
		D: float32(s),
		E: float32(tx),
		F: float32(ty),
	}
}

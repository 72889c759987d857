package anf

import "github.com/rs/zerolog"

// diagnostics emits optional per-stage statistics through a structured
// logger. It only ever reports; it never feeds back into the numbers.
type diagnostics struct {
	log     zerolog.Logger
	enabled bool
}

func newDiagnostics(enabled bool, log zerolog.Logger) diagnostics {
	if !enabled {
		log = zerolog.Nop()
	}
	return diagnostics{log: log.With().Str("component", "anf").Logger(), enabled: enabled}
}

// Instability records a non-fatal numeric edge case that was locally
// clamped (zero-sum rows, zero degrees). Surfaced as a warning, not an
// error, since computation proceeds with the clamped values.
func (d diagnostics) Instability(stage string, count int) {
	if !d.enabled || count == 0 {
		return
	}
	d.log.Warn().
		Str("stage", stage).
		Int("clamped", count).
		Msg("numeric instability: values clamped")
}

// Term reports one two-step fusion term's contribution.
func (d diagnostics) Term(index int, alpha, mass float64) {
	if !d.enabled {
		return
	}
	d.log.Debug().
		Int("term", index+1).
		Float64("alpha", alpha).
		Float64("frobenius", mass).
		Msg("two-step term contribution")
}

// Fused reports summary statistics of the combined matrix before the
// final row renormalization.
func (d diagnostics) Fused(mode FuseMode, views int, drift float64) {
	if !d.enabled {
		return
	}
	d.log.Info().
		Str("mode", string(mode)).
		Int("views", views).
		Float64("row_sum_drift", drift).
		Msg("fusion complete")
}

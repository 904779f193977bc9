package strategy

import (
	"errors"
	"testing"

	"github.com/stratlab/stratlab/internal/core"
)

func TestParameters_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Parameters)
		wantErr bool
	}{
		{"defaults", func(p *Parameters) {}, false},
		{"short equals long", func(p *Parameters) { p.MAShort = 50 }, true},
		{"short above long", func(p *Parameters) { p.MAShort = 60 }, true},
		{"zero rsi period", func(p *Parameters) { p.RSIPeriod = 0 }, true},
		{"negative risk reward", func(p *Parameters) { p.RiskReward = -1 }, true},
		{"threshold above 100", func(p *Parameters) { p.ConfidenceThreshold = 150 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr && !errors.Is(err, core.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestNewSynthesizer_RejectsInvalidParameters(t *testing.T) {
	p := DefaultParameters()
	p.MAShort = 80
	if _, err := NewSynthesizer(p); !errors.Is(err, core.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

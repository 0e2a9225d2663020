package storage

import (
	"context"
	"errors"
	"testing"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateIdentity(t *testing.T) {
	tests := []struct {
		ctx      context.Context
		wantErr  error
		name     string
		identity string
	}{
		{
			name:     "known user",
			ctx:      context.Background(),
			identity: "admin",
		},
		{
			name:     "padded name is kept",
			ctx:      context.Background(),
			identity: "  user  ",
		},
		{
			name:     "empty identity",
			ctx:      context.Background(),
			identity: "",
			wantErr:  ErrEmptyString,
		},
		{
			name:     "whitespace identity",
			ctx:      context.Background(),
			identity: "\t ",
			wantErr:  ErrEmptyString,
		},
		{
			name:     "nil context wins",
			ctx:      nil,
			identity: "",
			wantErr:  ErrNilContext,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateIdentity(tt.ctx, tt.identity)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validateIdentity() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateIdentity() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

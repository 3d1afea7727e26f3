package models

import "testing"

func TestJobRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     JobRequest
		wantErr bool
	}{
		{"Uniform float32", JobRequest{Count: 100, Type: TypeFloat32, Distribution: DistUniform}, false},
		{"Uniform uint8", JobRequest{Count: 1, Type: TypeUint8, Distribution: DistUniform}, false},
		{"Normal float64", JobRequest{Count: 10, Type: TypeFloat64, Distribution: DistNormal, StdDev: 1}, false},
		{"Log-normal float16", JobRequest{Count: 10, Type: TypeFloat16, Distribution: DistLogNormal}, false},
		{"Poisson uint32", JobRequest{Count: 10, Type: TypeUint32, Distribution: DistPoisson, Lambda: 4}, false},
		{"Explicit grid", JobRequest{Count: 10, Type: TypeFloat32, Distribution: DistUniform, Blocks: 2, Threads: 32}, false},

		{"Zero count", JobRequest{Count: 0, Type: TypeFloat32, Distribution: DistUniform}, true},
		{"Negative count", JobRequest{Count: -5, Type: TypeFloat32, Distribution: DistUniform}, true},
		{"Unknown distribution", JobRequest{Count: 10, Type: TypeFloat32, Distribution: "exponential"}, true},
		{"Normal uint32", JobRequest{Count: 10, Type: TypeUint32, Distribution: DistNormal}, true},
		{"Poisson float32", JobRequest{Count: 10, Type: TypeFloat32, Distribution: DistPoisson, Lambda: 4}, true},
		{"Poisson without lambda", JobRequest{Count: 10, Type: TypeUint32, Distribution: DistPoisson}, true},
		{"Blocks without threads", JobRequest{Count: 10, Type: TypeFloat32, Distribution: DistUniform, Blocks: 2}, true},
		{"Negative threads", JobRequest{Count: 10, Type: TypeFloat32, Distribution: DistUniform, Blocks: 2, Threads: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected valid request, got: %v", err)
			}
		})
	}
}

func TestOutputTypeElemSize(t *testing.T) {
	sizes := map[OutputType]int{
		TypeUint8:   1,
		TypeUint16:  2,
		TypeUint32:  4,
		TypeFloat16: 2,
		TypeFloat32: 4,
		TypeFloat64: 8,
	}
	for typ, want := range sizes {
		if got := typ.ElemSize(); got != want {
			t.Errorf("%s: ElemSize = %d, want %d", typ, got, want)
		}
	}
	if got := OutputType("int128").ElemSize(); got != 0 {
		t.Errorf("Unknown type: ElemSize = %d, want 0", got)
	}
}

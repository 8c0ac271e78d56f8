package settings

import (
	"context"
	"testing"
)

func TestNewCliParams(t *testing.T) {
	got := NewCliParams()
	want := &Run{
		MinLogLevel:       0,
		ConfigPath:        "",
		Height:            DefaultHeight,
		NoColor:           false,
		PrintImmediateTag: false,
	}
	if *got != *want {
		t.Errorf("NewCliParams() = %+v, want %+v", got, want)
	}
}

func TestContextRoundTrip(t *testing.T) {
	params := NewCliParams()
	params.Height = 14

	ctx := IntoContext(context.Background(), params)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("FromContext did not find settings")
	}
	if got.Height != 14 {
		t.Errorf("Height = %d, want 14", got.Height)
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Fatal("FromContext reported settings on an empty context")
	}
}

package gen

import (
	"slices"
	"testing"

	"github.com/wippyai/draco-go/errors"
)

func TestInspector_RepoPayloads(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}
	cfg := loadRepoConfig(t)
	infos, err := (&Inspector{Dir: "../.."}).Inspect(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 2 {
		t.Fatalf("got %d payloads", len(infos))
	}
	mesh := infos[0]
	if mesh.PkgName != "geometry" {
		t.Errorf("PkgName = %q", mesh.PkgName)
	}
	for _, m := range []string{"AddFace", "CornerPoint", "NumFaces", "NumPoints"} {
		if !slices.Contains(mesh.Methods, m) {
			t.Errorf("Mesh methods %v missing %s", mesh.Methods, m)
		}
	}
}

func TestInspector_MissingType(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}
	cfg := &Config{
		Module:   "github.com/wippyai/draco-go",
		Payloads: []Payload{{Name: "Nope", Type: "Nope", Package: "github.com/wippyai/draco-go/geometry"}},
	}
	_, err := (&Inspector{Dir: "../.."}).Inspect(cfg)
	if errors.KindOf(err) != errors.KindNotFound {
		t.Fatalf("err = %v", err)
	}
}

func TestInspector_NotAType(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}
	cfg := &Config{
		Module:   "github.com/wippyai/draco-go",
		Payloads: []Payload{{Name: "Mesh", Type: "NewMesh", Package: "github.com/wippyai/draco-go/geometry"}},
	}
	_, err := (&Inspector{Dir: "../.."}).Inspect(cfg)
	if errors.KindOf(err) != errors.KindTypeMismatch {
		t.Fatalf("err = %v", err)
	}
}

func TestInspector_NoPayloads(t *testing.T) {
	infos, err := (&Inspector{}).Inspect(&Config{})
	if err != nil || infos != nil {
		t.Fatalf("Inspect = %v, %v", infos, err)
	}
}

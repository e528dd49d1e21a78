package shader_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vkngwrapper/raytracing/internal/shader"
)

func TestLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "shaders")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	spirv := []byte{0x03, 0x02, 0x23, 0x07}
	if err := ioutil.WriteFile(filepath.Join(dir, "vert.spv"), spirv, 0644); err != nil {
		t.Fatal(err)
	}

	loader, err := shader.NewLoader(dir)
	if err != nil {
		t.Fatal(err)
	}

	data, err := loader.Load("vert.spv")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(data, spirv) {
		t.Errorf("loaded %v", data)
	}

	_, err = loader.Load("frag.spv")
	if err == nil || !strings.Contains(err.Error(), "frag.spv") {
		t.Errorf("missing file error should name it, got %v", err)
	}
}

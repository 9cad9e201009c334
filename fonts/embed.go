package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/qrcanvas/layout"
)

// 内置字体：Go 字体族的 TrueType 数据，供栅格后端绘制文字。
// 比例字体对应 Helvetica 度量，等宽字体对应 Courier 度量。
var builtin = map[string][]byte{
	"go-regular":   goregular.TTF,
	"go-bold":      gobold.TTF,
	"go-mono":      gomono.TTF,
	"go-mono-bold": gomonobold.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "builtin:go-regular" 或 "go-regular"。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimPrefix(name, "builtin:"))
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("未知的内置字体 %s", name)
	}
	return data, nil
}

// Name returns the built-in font used to draw text measured with face.
func Name(face layout.Face, bold bool) string {
	name := "go"
	if face == layout.FaceCourier {
		name += "-mono"
	}
	if bold {
		return name + "-bold"
	}
	if face == layout.FaceCourier {
		return name
	}
	return name + "-regular"
}

// ForFace returns the TrueType data matching face and weight.
func ForFace(face layout.Face, bold bool) []byte {
	data, _ := Load(Name(face, bold))
	return data
}

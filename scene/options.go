package scene

// DefaultFontFamily is used when neither the script nor the options name a
// font family.
const DefaultFontFamily = `Helvetica,Arial,"Liberation Sans"`

// BuildOptions 配置场景构建。
type BuildOptions struct {
	// FontFamily 为脚本 meta 未指定 font 时使用的字体族列表。
	FontFamily string
	// Author 与 Creator 是 meta 段缺省时的文档信息。
	Author  string
	Creator string
}

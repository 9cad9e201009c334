package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/ByLCY/qrcanvas/batch"
	"github.com/ByLCY/qrcanvas/config"
	"github.com/ByLCY/qrcanvas/dsl"
	canvasrenderer "github.com/ByLCY/qrcanvas/renderer/canvas"
	pdfrenderer "github.com/ByLCY/qrcanvas/renderer/pdf"
	svgrenderer "github.com/ByLCY/qrcanvas/renderer/svg"
	"github.com/ByLCY/qrcanvas/scene"
)

type options struct {
	input      string
	output     string
	format     string
	data       string
	dataFile   string
	configPath string
	batchDir   string
	debug      string
	page       int
	dpi        float64
	font       string
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "in", "examples/bill.qrc", "绘图脚本路径")
	flag.StringVar(&opts.output, "out", "", "输出文件路径（批量模式下为输出目录）")
	flag.StringVar(&opts.format, "format", "", "输出格式：pdf、svg 或 png")
	flag.StringVar(&opts.data, "data", "", "绑定到脚本的 JSON 数据")
	flag.StringVar(&opts.dataFile, "data-file", "", "绑定到脚本的 JSON 数据文件")
	flag.StringVar(&opts.configPath, "config", "", "TOML 配置文件")
	flag.StringVar(&opts.batchDir, "batch", "", "批量模式：目录中每个 JSON 文件生成一份文档")
	flag.StringVar(&opts.debug, "debug", "", "场景调试 JSON 输出路径")
	flag.IntVar(&opts.page, "page", 0, "svg/png 输出的页码（从 0 开始）")
	flag.Float64Var(&opts.dpi, "dpi", 0, "png 输出分辨率")
	flag.StringVar(&opts.font, "font", "", "字体族列表，例如 Helvetica,Arial")
	flag.Parse()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(2)
	}
	logger := cfg.Logger("qrcanvas")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, opts, cfg, logger); err != nil {
		logger.Error("生成失败", "error", err)
		os.Exit(1)
	}
}

// loadConfig 读取配置文件，显式给出的命令行参数覆盖其中的值。
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Format = opts.format
		case "dpi":
			cfg.DPI = opts.dpi
		case "font":
			cfg.FontFamily = opts.font
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run 串联解析、数据绑定、场景构建与渲染。
func run(ctx context.Context, opts options, cfg *config.Config, logger hclog.Logger) error {
	script, err := loadScript(opts.input)
	if err != nil {
		return err
	}
	r, err := newRenderer(cfg.Format, opts.page, cfg.DPI)
	if err != nil {
		return err
	}

	if opts.batchDir != "" {
		outDir := opts.output
		if outDir == "" {
			outDir = cfg.Output
		}
		jobs, err := batch.Discover(opts.batchDir, outDir, cfg.Format)
		if err != nil {
			return err
		}
		logger.Info("批量生成", "jobs", len(jobs), "parallelism", cfg.Parallelism, "format", cfg.Format)
		return batch.Run(ctx, jobs, batch.Options{Limit: cfg.Parallelism, Logger: logger}, func(ctx context.Context, job batch.Job) error {
			data, err := readData(job.Data)
			if err != nil {
				return err
			}
			return generate(script, data, cfg, r, job.Output, "")
		})
	}

	data, err := inputData(opts)
	if err != nil {
		return err
	}
	output := opts.output
	if output == "" {
		base := filepath.Base(opts.input)
		output = filepath.Join(cfg.Output, base[:len(base)-len(filepath.Ext(base))]+"."+cfg.Format)
	}
	if err := generate(script, data, cfg, r, output, opts.debug); err != nil {
		return err
	}
	logger.Info("已生成", "output", output, "format", cfg.Format)
	return nil
}

func loadScript(path string) (*dsl.Script, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开脚本文件 %s: %w", path, err)
	}
	defer file.Close()

	script, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析脚本失败: %w", err)
	}
	return script, nil
}

func newRenderer(format string, page int, dpi float64) (scene.Renderer, error) {
	switch format {
	case "pdf":
		return pdfrenderer.Renderer{}, nil
	case "svg":
		return svgrenderer.Renderer{Page: page}, nil
	case "png":
		return canvasrenderer.Renderer{Page: page, DPI: dpi}, nil
	}
	return nil, fmt.Errorf("不支持的输出格式 %q", format)
}

func inputData(opts options) (any, error) {
	if opts.dataFile != "" {
		return readData(opts.dataFile)
	}
	if opts.data == "" {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal([]byte(opts.data), &data); err != nil {
		return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	return data, nil
}

func readData(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取数据文件失败: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析数据文件 %s 失败: %w", path, err)
	}
	return data, nil
}

// generate 为一份数据生成一个文件；每次调用都创建独立的画布。
func generate(script *dsl.Script, data any, cfg *config.Config, r scene.Renderer, output, debugPath string) error {
	s, err := scene.Build(script, data, scene.BuildOptions{
		FontFamily: cfg.FontFamily,
		Author:     cfg.Meta.Author,
		Creator:    cfg.Meta.Creator,
	})
	if err != nil {
		return fmt.Errorf("构建场景失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(s, debugPath); err != nil {
			return err
		}
	}

	out, err := r.Render(s)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func writeDebug(s *scene.Scene, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := scene.WriteDebugJSON(s, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

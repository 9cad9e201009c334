package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
)

// Job 描述一次文档生成：一份 JSON 数据文件对应一个输出文件。
type Job struct {
	Name   string
	Data   string
	Output string
}

// Func generates the document of one job. Each call must use its own
// canvas or document; nothing is shared between jobs.
type Func func(ctx context.Context, job Job) error

// Options controls Run.
type Options struct {
	// Limit 是同时运行的任务数上限，小于 1 时按 1 处理。
	Limit  int
	Logger hclog.Logger
}

// Run runs fn for every job with at most opts.Limit jobs in flight. The first
// failure cancels the context passed to the remaining jobs and is returned.
func Run(ctx context.Context, jobs []Job, opts Options, fn Func) error {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			logger.Debug("生成开始", "job", job.Name)
			if err := fn(ctx, job); err != nil {
				logger.Error("生成失败", "job", job.Name, "error", err)
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			logger.Info("已生成", "job", job.Name, "output", job.Output, "elapsed", time.Since(start))
			return nil
		})
	}
	return g.Wait()
}

// Discover lists the *.json files of dir as jobs writing <name>.<ext> into
// outDir. Jobs are sorted by name.
func Discover(dir, outDir, ext string) ([]Job, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取数据目录 %s 失败: %w", dir, err)
	}
	var jobs []Job
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		jobs = append(jobs, Job{
			Name:   name,
			Data:   filepath.Join(dir, e.Name()),
			Output: filepath.Join(outDir, name+"."+ext),
		})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	return jobs, nil
}

// 文件: pkg/report/file_sink.go
// FileSink - 落盘到本地文件系统
//
// 镜像原始实现的 write_summary_json/write_to_file：JSON 美化输出，
// 父目录不存在时自动创建。

package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileSink 把基准测试结果写成 JSON 文件。
type FileSink struct {
	path string
}

// NewFileSink 创建一个写入指定路径的 FileSink。
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Write 把 run 序列化为美化 JSON 并写入文件，父目录缺失时自动创建。
func (s *FileSink) Write(_ context.Context, run BenchmarkRun) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal run: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("report: write file: %w", err)
	}
	return nil
}

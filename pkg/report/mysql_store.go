// 文件: pkg/report/mysql_store.go
// MySQLStore - 基准测试运行历史持久化
//
// 套用 futures.MySQLContractRepository 的 GORM 模式：
// 独立的 TableName()，所有操作带 context。

package report

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/metrics"
)

// benchmarkRunRow 是 BenchmarkRun 的扁平化存储形态，
// Summary 整体序列化进一个 JSON 列，避免为每个分位点都建列。
type benchmarkRunRow struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	RunID       string `gorm:"column:run_id;uniqueIndex;size:64"`
	StartedAt   int64  `gorm:"column:started_at_ms"`
	DurationSec float64
	NumTicks    int
	NumSymbols  uint32
	SummaryJSON string `gorm:"column:summary_json;type:json"`
}

// TableName GORM 表名。
func (benchmarkRunRow) TableName() string { return "benchmark_runs" }

// MySQLStore 把 BenchmarkRun 持久化到 MySQL。
type MySQLStore struct {
	db *gorm.DB
}

// NewMySQLStore 用一个已建立的 *gorm.DB 构造 MySQLStore。
func NewMySQLStore(db *gorm.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// OpenMySQLStore 用 DSN 直接打开一个 MySQL 连接并返回 MySQLStore，
// 省去调用方自己拼装 gorm.Open(mysql.Open(...)) 的样板代码。
func OpenMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("report: open mysql: %w", err)
	}
	return NewMySQLStore(db), nil
}

// AutoMigrate 建表，开发/测试环境使用；生产环境应走正式迁移工具。
func (s *MySQLStore) AutoMigrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&benchmarkRunRow{})
}

// Write 把一次运行结果写入 benchmark_runs 表。
func (s *MySQLStore) Write(ctx context.Context, run BenchmarkRun) error {
	summaryJSON, err := marshalSummary(run.Summary)
	if err != nil {
		return fmt.Errorf("report: marshal summary: %w", err)
	}

	row := benchmarkRunRow{
		RunID:       run.RunID,
		StartedAt:   run.StartedAt,
		DurationSec: run.DurationSec,
		NumTicks:    run.NumTicks,
		NumSymbols:  run.NumSymbols,
		SummaryJSON: summaryJSON,
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("report: insert benchmark run: %w", err)
	}
	return nil
}

func marshalSummary(s metrics.Summary) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

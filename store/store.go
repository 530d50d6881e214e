/*
 * Copyright 2023 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package store 判决持久化，支持 mysql、postgres 和 sqlite
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/rulego/rulego-hep/api/types"
)

const (
	DriverMysql    = "mysql"
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS verdicts (
	event_id VARCHAR(64) NOT NULL,
	run_number INTEGER NOT NULL,
	event_number INTEGER NOT NULL,
	accepted INTEGER NOT NULL,
	reason VARCHAR(32) NOT NULL,
	node_id VARCHAR(64) NOT NULL,
	error TEXT NOT NULL,
	created_at VARCHAR(32) NOT NULL
)`

// Store 判决存储
type Store struct {
	db     *sql.DB
	driver string
}

// Open 打开数据库并创建数据表
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverMysql, DriverPostgres, DriverSqlite:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSqlite {
		//内存数据库每个连接都是独立的
		db.SetMaxOpenConns(1)
	}
	s, err := New(db, driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New 使用已打开的数据库创建存储
func New(db *sql.DB, driver string) (*Store, error) {
	s := &Store{db: db, driver: driver}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create verdicts table: %w", err)
	}
	return s, nil
}

// bind 把 ? 占位符转换成驱动需要的格式
func (s *Store) bind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
		} else {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Save 保存一个事件的判决
func (s *Store) Save(ctx context.Context, evt *types.Event, verdict types.Verdict) error {
	ev := types.NewEventVerdict(evt, verdict)
	accepted := 0
	if ev.Accept {
		accepted = 1
	}
	_, err := s.db.ExecContext(ctx,
		s.bind(`INSERT INTO verdicts (event_id, run_number, event_number, accepted, reason, node_id, error, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		ev.EventId, ev.RunNumber, ev.EventNumber, accepted, ev.Reason.String(), ev.NodeId, ev.Error,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// CountAccepted 通过的事件数
func (s *Store) CountAccepted(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM verdicts WHERE accepted = 1`).Scan(&n)
	return n, err
}

// CountByReason 按原因统计没有通过的事件数
func (s *Store) CountByReason(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT reason, COUNT(*) FROM verdicts WHERE accepted = 0 GROUP BY reason`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make(map[string]int64)
	for rows.Next() {
		var reason string
		var n int64
		if err := rows.Scan(&reason, &n); err != nil {
			return nil, err
		}
		result[reason] = n
	}
	return result, rows.Err()
}

// ListByRun 按事件号顺序返回一个运行的所有判决
func (s *Store) ListByRun(ctx context.Context, runNumber int) ([]types.EventVerdict, error) {
	rows, err := s.db.QueryContext(ctx,
		s.bind(`SELECT event_id, run_number, event_number, accepted, reason, node_id, error FROM verdicts WHERE run_number = ? ORDER BY event_number`),
		runNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []types.EventVerdict
	for rows.Next() {
		var ev types.EventVerdict
		var accepted int
		var reason string
		if err := rows.Scan(&ev.EventId, &ev.RunNumber, &ev.EventNumber, &accepted, &reason, &ev.NodeId, &ev.Error); err != nil {
			return nil, err
		}
		ev.Accept = accepted == 1
		if ev.Reason, err = types.ParseReason(reason); err != nil {
			return nil, err
		}
		result = append(result, ev)
	}
	return result, rows.Err()
}

// Close 关闭数据库
func (s *Store) Close() error {
	return s.db.Close()
}

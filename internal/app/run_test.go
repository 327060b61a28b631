package app

import (
	"bytes"
	"strings"
	"testing"
)

// Run(serve/worker) はDB接続まで進むため、到達不能なDATABASE_URLを
// 設定した上でエラーが返ることを検証する。実DBを使った起動確認は
// docker-compose環境での結合テストに委ねる。

func TestRun_Serve_WithUnreachableDB_ReturnsError(t *testing.T) {
	setTestEnv(t)

	var buf bytes.Buffer
	err := Run(&buf, []string{"serve"})
	if err == nil {
		t.Fatal("Run(serve) error = nil, want DB connection error")
	}
	if !strings.Contains(err.Error(), "database") {
		t.Errorf("Run(serve) error = %v, want database connection error", err)
	}
	t.Logf("Run(serve) failed as expected: %v", err)
}

func TestRun_Worker_WithUnreachableDB_ReturnsError(t *testing.T) {
	setTestEnv(t)

	var buf bytes.Buffer
	err := Run(&buf, []string{"worker"})
	if err == nil {
		t.Fatal("Run(worker) error = nil, want DB connection error")
	}
	t.Logf("Run(worker) failed as expected: %v", err)
}

func TestRun_Default_WithUnreachableDB_ReturnsError(t *testing.T) {
	setTestEnv(t)

	// 引数なしはserveモードとして扱われる
	var buf bytes.Buffer
	err := Run(&buf, []string{})
	if err == nil {
		t.Fatal("Run() error = nil, want DB connection error")
	}
}

func TestRun_Migrate_WithUnreachableDB_ReturnsError(t *testing.T) {
	setTestEnv(t)

	var buf bytes.Buffer
	err := Run(&buf, []string{"migrate"})
	if err == nil {
		t.Fatal("Run(migrate) error = nil, want migration error")
	}
	t.Logf("Run(migrate) failed as expected: %v", err)
}

func TestRun_WithMissingEnv_ReturnsError(t *testing.T) {
	clearTestEnv(t)

	var buf bytes.Buffer
	err := Run(&buf, []string{"serve"})
	if err == nil {
		t.Fatal("Run() error = nil, want config load error")
	}
	if !strings.Contains(err.Error(), "initialization failed") {
		t.Errorf("Run() error = %v, want initialization failure", err)
	}
}

func TestMaskDatabaseURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "長いURLは先頭のみ残してマスクされる",
			url:  "postgres://user:secret@db:5432/supavacation",
			want: "postgres://u***@...",
		},
		{
			name: "短いURLは全体がマスクされる",
			url:  "postgres://",
			want: "***",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := maskDatabaseURL(tt.url)
			if got != tt.want {
				t.Errorf("maskDatabaseURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
			if strings.Contains(got, "secret") {
				t.Errorf("maskDatabaseURL(%q) = %q, must not contain credentials", tt.url, got)
			}
		})
	}
}

package engine

import (
	"github.com/phyten/tdfix/internal/model"
)

// Item は 1 件の検出結果を表す
type Item struct {
	File        string     `json:"file"`
	Span        model.Span `json:"span"`
	Message     string     `json:"message"`
	Code        string     `json:"code"`
	Domain      string     `json:"domain"`
	Replacement string     `json:"replacement"`
	Fixed       bool       `json:"fixed,omitempty"`
}

// ItemError は 1 ファイルの処理に失敗した際の情報を表す
type ItemError struct {
	File    string `json:"file"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Options は実行オプション
type Options struct {
	OriginalDomain string   // 置換対象のテキストドメイン
	TargetDomain   string   // 置換後のテキストドメイン（空なら何もしない）
	RootDir        string   // 走査の起点
	Paths          []string // RootDir からの相対パス（空なら全体）
	Excludes       []string // 除外グロブ（パス要素単位で照合）
	Extensions     []string // 対象拡張子（既定は PHP 系）
	Write          bool     // 修正をファイルへ書き戻す
	Jobs           int
	MaxFileBytes   int
	Progress       bool
}

// Result は出力
type Result struct {
	Items      []Item      `json:"items"`
	Total      int         `json:"total"`
	FixedCount int         `json:"fixed_count"`
	FilesSeen  int         `json:"files_seen"`
	ElapsedMS  int64       `json:"elapsed_ms"`
	Errors     []ItemError `json:"errors,omitempty"`
	ErrorCount int         `json:"error_count"`
}

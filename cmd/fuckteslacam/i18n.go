// Package main provides localization for the fuckteslacam CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Burn recording timestamps into dashcam clips.": "ドライブレコーダーの動画に録画時刻を焼き込みます。",

		// Stamp command
		"Watermark a clip with its recording timestamp": "動画に録画時刻の透かしを焼き込む",

		// Probe command
		"Inspect a clip without processing it": "動画を処理せずに情報を表示",

		// Flags
		"Output file path (default: derived from the input name)": "出力ファイルパス（デフォルト: 入力名から導出）",
		"YAML configuration file":                                 "YAML設定ファイル",
		"Capture frame rate":                                      "キャプチャのフレームレート",
		"Segment emission interval in milliseconds":               "セグメント出力間隔（ミリ秒）",
		"Wait after playback before stopping capture, in milliseconds": "再生終了からキャプチャ停止までの待機時間（ミリ秒）",
		"Target bitrate in bps":                                   "目標ビットレート（bps）",
		"Quality (CRF 0-63, lower is better)":                     "品質（CRF 0-63、低いほど高品質）",
		"Stamp text color (hex, e.g. #ffffff)":                    "透かし文字の色（16進数、例: #ffffff）",
		"Stamp panel color (hex, e.g. #000000)":                   "透かし背景の色（16進数、例: #000000）",
		"Path to ffmpeg executable (falls back to FFMPEG_PATH env, then system default)": "ffmpeg実行ファイルのパス（FFMPEG_PATH環境変数、システム既定の順に探索）",
		"Enable debug output":                  "デバッグ出力を有効化",
		"Directory for debug output":           "デバッグ出力のディレクトリ",
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Runtime messages
		"Stamping...":                   "透かしを焼き込み中...",
		"Output saved to %s":            "出力を %s に保存しました",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",

		// Error messages
		"expected exactly one input clip": "入力動画を1つ指定してください",
	})
}

package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Run coordination (info)
		"Run %s: %s":                     "実行 %s: %s",
		"Encoding as %s":                 "%s でエンコードします",
		"Run %s ready: %d bytes of %s":   "実行 %s 完了: %s を %d バイト生成",
		"Interrupted, shutting down...":  "中断されました。シャットダウン中...",
		"Output saved to %s":             "出力を %s に保存しました",

		// Negotiation
		"Selected encoding %s":             "エンコード方式 %s を選択しました",
		"Encoding %s not supported, trying next": "エンコード方式 %s は利用できません。次を試します",

		// Playback and capture
		"Playback ended after %d frames":        "%d フレームで再生が終了しました",
		"Capture started at %.1f fps, %s chunks": "キャプチャ開始: %.1f fps, %s 間隔",
		"Capture stopped with %d segments (%d bytes)": "キャプチャ終了: %d セグメント (%d バイト)",
		"Capture error: %s":                     "キャプチャエラー: %s",
		"Capture reported an error: %s":         "キャプチャがエラーを報告しました: %s",

		// Finalization
		"Assembled %d segments into %d bytes of %s": "%d セグメントを %s %d バイトに結合しました",

		// Warnings
		"Cannot read a timestamp from %q, using current time": "%q からタイムスタンプを読み取れません。現在時刻を使用します",
		"Failed to save debug frame %d: %s":                   "デバッグフレーム %d の保存に失敗しました: %s",

		// Errors
		"Failed to write output: %s": "出力の書き込みに失敗しました: %s",
	})
}

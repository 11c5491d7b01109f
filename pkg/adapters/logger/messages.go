package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("zh", l10n.LexiconMap{
		// Transport (engine)
		"Media set to %s":                               "媒体已设置为 %s",
		"Playing %s from %d ms":                         "从 %[2]d ms 开始播放 %[1]s",
		"Paused at %d ms":                               "已在 %d ms 处暂停",
		"Resumed at %d ms":                              "已从 %d ms 处继续",
		"Stopped at %d ms (%s)":                         "已在 %d ms 处停止 (%s)",
		"Seeked to %d ms":                               "已跳转到 %d ms",
		"Failed to open %s: %v":                         "无法打开 %s: %v",
		"Seek to %d ms failed: %v":                      "跳转到 %d ms 失败: %v",
		"Fast seek to %d ms failed, reinitializing: %v": "快速跳转到 %d ms 失败，正在重新初始化: %v",
		"Position reached duration %d ms":               "播放位置已到达时长 %d ms",

		// Frames
		"Frame source exhausted after %d frames":    "帧源已耗尽，共 %d 帧",
		"Frame read failed, retrying: %v":           "读取帧失败，正在重试: %v",
		"Giving up after %d failed frame reads: %v": "连续 %d 次读取帧失败，放弃播放: %v",
		"Failed to close frame source: %v":          "关闭帧源失败: %v",
		"Decoding %s from %d ms at %dx%d":           "正在从 %[2]d ms 解码 %[1]s，尺寸 %[3]dx%[4]d",
		"No frames in %s after %d ms":               "%s 在 %d ms 之后没有帧",
		"No video stream in %s, playing audio only": "%s 没有视频流，仅播放音频",

		// Audio
		"Audio unavailable, continuing without sound: %v":        "音频不可用，继续无声播放: %v",
		"Audio unavailable after seek: %v":                       "跳转后音频不可用: %v",
		"Audio track ended at %d ms":                             "音轨已在 %d ms 处结束",
		"Audio device unavailable, continuing without sound: %v": "音频设备不可用，继续无声播放: %v",
		"Audio device failed to start: %v":                       "音频设备启动失败: %v",
		"Failed to close audio device: %v":                       "关闭音频设备失败: %v",
		"Failed to release audio track: %v":                      "释放音轨失败: %v",
		"Extracted %d audio frames from %s at %d ms":             "已从 %[2]s 的 %[3]d ms 处提取 %[1]d 个音频帧",
		"Failed to remove %s: %v":                                "删除 %s 失败: %v",
		"miniaudio: %s":                                          "miniaudio: %s",

		// A/V sync
		"A/V drift %d ms (audio %d ms, video %d ms)": "音视频偏差 %d ms (音频 %d ms，视频 %d ms)",
		"Resyncing audio to %d ms after %d ms drift": "偏差 %[2]d ms，正在将音频重新同步到 %[1]d ms",

		// Metadata
		"Resolved %s: %d ms (%s), %.3f fps, %dx%d": "已解析 %s: %d ms (%s)，%.3f fps，%dx%d",
		"Duration of %s taken from tag %s":         "%s 的时长取自标签 %s",
		"No duration for %s, assuming %d ms":       "无法获取 %s 的时长，假定为 %d ms",
		"Prober %s failed on %s: %v":               "探测器 %s 处理 %s 失败: %v",

		// Remote media
		"Resolving %s with yt-dlp":                          "正在使用 yt-dlp 解析 %s",
		"Resolved %s into separate video and audio streams": "%s 已解析为独立的视频流和音频流",

		// Playlist
		"Playing item %d: %s":  "正在播放第 %d 项: %s",
		"Skipping item %d: %v": "跳过第 %d 项: %v",
		"Playlist finished":    "播放列表已结束",

		// Snapshots
		"Saved snapshot %s":                       "已保存快照 %s",
		"Failed to save snapshot of frame %d: %v": "保存第 %d 帧快照失败: %v",
		"Snapshot queue full, skipping frame %d":  "快照队列已满，跳过第 %d 帧",

		// Session (CLI)
		"Playing %d item(s) in %s mode":        "以 %[2]s 模式播放 %[1]d 个项目",
		"Resuming %s at %d ms":                 "从 %[2]d ms 处继续播放 %[1]s",
		"No supported media files in %s":       "所选文件夹 %s 中没有支持的媒体文件",
		"Failed to read folder %s: %v":         "读取文件夹 %s 失败: %v",
		"Cannot start %s at %d ms: %v":         "无法从 %[2]d ms 处开始播放 %[1]s: %[3]v",
		"Failed to read history for %s: %v":    "读取 %s 的播放历史失败: %v",
		"Failed to record history for %s: %v":  "记录 %s 的播放历史失败: %v",
		"History disabled, cannot open %s: %v": "无法打开 %s，已停用播放历史: %v",
		"Summary saved to %s":                  "摘要已保存到 %s",
		"Failed to write summary: %v":          "写入摘要失败: %v",
		"Interrupted, shutting down...":        "已中断，正在关闭...",
	})
}

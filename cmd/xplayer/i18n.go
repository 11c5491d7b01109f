// Package main provides localization for the xplayer CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Chinese translations for CLI messages.
	l10n.Register("zh", l10n.LexiconMap{
		// Flag categories
		"Configuration": "配置",
		"Playback":      "播放",
		"Audio":         "音频",
		"Snapshots":     "快照",
		"Output":        "输出",
		"History":       "播放历史",
		"Logging":       "日志",

		// Root command
		"Play video files with synchronized audio":                                                    "播放视频文件并保持音画同步",
		"xplayer plays local files and web URLs, keeping audio in sync with a shared playback clock.": "xplayer 可播放本地文件和网络地址，并让音频与统一的播放时钟保持同步。",

		// Play command
		"Play one or more media files or URLs":                   "播放一个或多个媒体文件或网址",
		"Play mode (sequential, random, once, repeat-one, loop)": "播放模式（sequential, random, once, repeat-one, loop）",
		"Volume (0-100)":                                         "音量（0-100）",
		"Playback rate (e.g. 0.5, 1.0, 2.0)":                     "播放速度（例如 0.5, 1.0, 2.0）",
		"Start position of the first item in milliseconds":       "第一项的起始位置（毫秒）",
		"Resume each item where it was last stopped":             "从上次停止的位置继续播放每一项",
		"Audio output (beep, malgo, none)":                       "音频输出（beep, malgo, none）",
		"Save frame snapshots to this directory":                 "将帧快照保存到此目录",
		"Save every Nth presented frame":                         "每隔 N 帧保存一张快照",
		"Scale snapshots down to this width":                     "将快照缩小到此宽度",
		"Do not draw the status bar on snapshots":                "快照上不绘制状态栏",
		"Write a session summary to file (Markdown format)":      "将播放摘要写入文件（Markdown 格式）",
		"Play history database path":                             "播放历史数据库路径",
		"Do not record play history":                             "不记录播放历史",
		"Path to the ffmpeg executable":                          "ffmpeg 可执行文件路径",
		"Path to the ffprobe executable":                         "ffprobe 可执行文件路径",
		"YAML configuration file":                                "YAML 配置文件",
		"Log level (debug, info, warn, error)":                   "日志级别（debug, info, warn, error）",
		"Suppress all log output":                                "不输出任何日志",

		// Probe command
		"Print media metadata and where the duration came from": "显示媒体元数据及时长的来源",

		"Title:       %s":                 "标题：    %s",
		"Location:    %s":                 "位置：    %s",
		"Audio:       %s":                 "音频：    %s",
		"Duration:    %d ms (from %s)":    "时长：    %d ms（来源 %s）",
		"Frame rate:  %.3f fps":           "帧率：    %.3f fps",
		"Dimensions:  %dx%d":              "尺寸：    %dx%d",
		"Audio track: %d Hz, %d channels": "音轨：    %d Hz，%d 声道",
		"Audio track: none":               "音轨：    无",

		// History command
		"List or clear play history": "列出或清除播放历史",
		"Number of entries to show":  "显示的条目数",
		"Delete all history":         "删除全部播放历史",
		"History cleared":            "播放历史已清除",
		"No history yet":             "暂无播放历史",

		"PLAYED\tPOSITION\tDURATION\tREASON\tLOCATION": "播放时间\t位置\t时长\t原因\t媒体",

		// Errors
		"Error: %v":                         "错误：%v",
		"At least one location is required": "至少需要一个媒体位置",
		"Exactly one location is required":  "需要且仅需要一个媒体位置",
		"No media files to play":            "没有可播放的媒体文件",

		// Summary content
		"Playback Summary":             "播放摘要",
		"Generated":                    "生成时间",
		"Session length":               "会话时长",
		"Settings":                     "设置",
		"Setting":                      "设置项",
		"Value":                        "值",
		"Play mode":                    "播放模式",
		"Volume":                       "音量",
		"Rate":                         "播放速度",
		"Audio device":                 "音频设备",
		"Items":                        "播放项目",
		"Nothing was played.":          "没有播放任何内容。",
		"Media":                        "媒体",
		"Duration":                     "时长",
		"Source":                       "来源",
		"Stopped at":                   "停止位置",
		"Reason":                       "原因",
		"error: %s":                    "错误：%s",
		"Engine":                       "播放引擎",
		"Counter":                      "计数项",
		"Frames presented":             "已显示帧数",
		"Frames dropped":               "已丢弃帧数",
		"Decode retries":               "解码重试次数",
		"Seeks":                        "跳转次数",
		"%d (%d fell back to re-open)": "%d（其中 %d 次回退为重新打开）",
		"Audio failures":               "音频失败次数",
		"A/V resyncs":                  "音画重新同步次数",
		"Max drift":                    "最大偏差",
	})
}

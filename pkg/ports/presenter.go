package ports

// Presenter receives frames as they become due for display.
type Presenter interface {
	Present(frame VideoFrame)
}

// Playlist advances playback to neighbouring items.
type Playlist interface {
	Next()
	Previous()
}

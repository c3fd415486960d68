package view

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// OpenImageDialog asks for an image file. It returns "" when cancelled.
func OpenImageDialog() string {
	files := GetOpenFile(Title("Open image"))
	if len(files) == 0 {
		return ""
	}
	return files[0]
}

// SaveImageDialog asks where to write the mosaic. It returns "" when cancelled.
// The format follows the chosen extension.
func SaveImageDialog() string {
	return GetSaveFile(Title("Save mosaic"))
}

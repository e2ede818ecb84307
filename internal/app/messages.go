package app

import (
	"errors"
	"fmt"

	"secupload/internal/upload"
)

const (
	welcomeMessage = "Welcome to the super secure file upload tool !"
	goodbyeMessage = "Goodbye!"
	menuPrompt     = "Please select one of the following options to continue :\n" +
		"1 - Upload a file\n" +
		"2 - Verify file exists\n" +
		"3 - Get file URL\n" +
		"0 - Exit\n" +
		"Your input ? [0-3]"
	uploadPrompt = "Please enter the path to an image or video file : "
	verifyPrompt = "Please enter the UUID to check :"
	pathPrompt   = "Please enter the UUID to get :"
)

// FormatUploaded is printed after a successful upload.
func FormatUploaded(id string) string {
	return fmt.Sprintf("File uploaded successfully, UUID : %s", id)
}

// FormatReport describes a verified upload.
func FormatReport(r upload.Report) string {
	return fmt.Sprintf("File %s exists, it is %s file.", r.ID, categoryPhrase(r.Category))
}

// FormatError turns an operation error into the message shown to the user.
// Errors without a dedicated message are shown as-is.
func FormatError(err error) string {
	var dup *upload.DuplicateError
	switch {
	case errors.As(err, &dup):
		return fmt.Sprintf("This file has already been uploaded with UUID : %s", dup.ID)
	case errors.Is(err, upload.ErrInvalidFormat):
		return "Invalid file format !"
	case errors.Is(err, upload.ErrInvalidInput):
		return "Invalid file !"
	case errors.Is(err, upload.ErrMalformedIdentifier):
		return "Invalid UUID !"
	case errors.Is(err, upload.ErrMalformedURL):
		return "Invalid URL !"
	case errors.Is(err, upload.ErrNotFound):
		return "No file corresponding to this UUID !"
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func categoryPhrase(c upload.MediaCategory) string {
	switch c {
	case upload.Image:
		return "an image"
	case upload.Video:
		return "a video"
	default:
		return "an unknown"
	}
}

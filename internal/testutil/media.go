package testutil

// Minimal media headers. Each sample carries enough of its format's
// signature to be sniffed; the payload after it is arbitrary.

// JPEG returns a JFIF header followed by payload.
func JPEG(payload ...byte) []byte {
	head := []byte{
		0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00,
		0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
	}
	return append(head, payload...)
}

// PNG returns a PNG signature and IHDR chunk header followed by payload.
func PNG(payload ...byte) []byte {
	head := []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R',
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	}
	return append(head, payload...)
}

// GIF returns a GIF89a header followed by payload.
func GIF(payload ...byte) []byte {
	head := []byte{'G', 'I', 'F', '8', '9', 'a', 0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}
	return append(head, payload...)
}

// WebM returns an EBML header declaring the "webm" doctype followed by payload.
func WebM(payload ...byte) []byte {
	head := []byte{
		0x1A, 0x45, 0xDF, 0xA3, // EBML magic
		0x9F,
		0x42, 0x86, 0x81, 0x01, // EBMLVersion 1
		0x42, 0xF7, 0x81, 0x01, // EBMLReadVersion 1
		0x42, 0xF2, 0x81, 0x04, // EBMLMaxIDLength 4
		0x42, 0xF3, 0x81, 0x08, // EBMLMaxSizeLength 8
		0x42, 0x82, 0x84, 'w', 'e', 'b', 'm', // DocType
		0x42, 0x87, 0x81, 0x02, // DocTypeVersion 2
		0x42, 0x85, 0x81, 0x02, // DocTypeReadVersion 2
	}
	return append(head, payload...)
}

// XML returns a small XML document, which is neither an image nor a video.
func XML() []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?><note>not media</note>`)
}

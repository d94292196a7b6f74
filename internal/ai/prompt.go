package ai

// Part is one element of a prompt: either plain text, or a media blob tagged with its MIME type
type Part struct {
	Text     string
	MIMEType string // Empty for text parts
	Data     []byte
}

// TextPart returns a plain text prompt part
func TextPart(text string) Part {
	return Part{Text: text}
}

// BlobPart returns a media prompt part
func BlobPart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

// IsBlob reports whether the part carries media rather than text
func (p Part) IsBlob() bool {
	return p.MIMEType != ""
}

// TextParts converts prompt lines into text parts
func TextParts(lines ...string) []Part {
	parts := make([]Part, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, TextPart(line))
	}
	return parts
}

const (
	ChatPreamble = "You are an expert, concise and clear AI Study Buddy. Provide structured answers with headings, " +
		"bullet lists where useful, and a short summary at the end. If user asks follow-up, keep context."

	correctInstruction = "Correct grammar, spelling, punctuation, and improve clarity of the following text. " +
		"Return only the corrected version, and after that provide a one-line summary labeled 'Summary:'."

	summarizeInstruction = "Summarize the following text at three lengths: (1) one-sentence summary, " +
		"(2) short paragraph (3-4 lines), (3) key bullet points (3 bullets). Label each section."

	imageInstruction = "Analyze this image deeply and return a structured report with sections: Description, " +
		"Objects Detected (list), Visual Cues (lighting, colors, mood), Insights (interpretation, possible context), " +
		"Possible Applications."

	// DefaultImageMIMEType is assumed for uploads that do not declare a content type
	DefaultImageMIMEType = "image/jpeg"
)

// CorrectPrompt builds a single-string grammar correction prompt
func CorrectPrompt(text string) []Part {
	return TextParts(correctInstruction + "\n\nText: " + text)
}

// SummarizePrompt builds a two-part prompt asking for summaries at three lengths
func SummarizePrompt(text string) []Part {
	return TextParts(summarizeInstruction, "Text: "+text)
}

// ImagePrompt builds an image analysis prompt. The MIME type is trusted as declared
func ImagePrompt(mimeType string, data []byte) []Part {
	if mimeType == "" {
		mimeType = DefaultImageMIMEType
	}
	return []Part{
		TextPart(imageInstruction),
		BlobPart(mimeType, data),
	}
}

package constants

// ExtractionMethod is the label the service reports for the strategy that produced the text.
// The service may send labels not listed here; they pass through untouched.
type ExtractionMethod string

const (
	MethodPDFMiner  ExtractionMethod = "pdfminer"    // native PDF text layer
	MethodNative    ExtractionMethod = "native"      // native text layer, generic label
	MethodOCR       ExtractionMethod = "ocr"         // rasterized + tesseract
	MethodDOCX      ExtractionMethod = "python-docx" // paragraphs + table rows
	MethodPlaintext ExtractionMethod = "plaintext"
)

// MethodUnknown is shown when the service did not report a method.
const MethodUnknown = "N/A"

// IsOCR reports whether the label names an OCR strategy.
func IsOCR(method string) bool {
	return ExtractionMethod(method) == MethodOCR
}

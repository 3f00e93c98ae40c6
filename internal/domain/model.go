package domain

// ModelDescriptor identifies an installable model file.
// Descriptors are discovered by scanning the configured models directory and
// stay valid until the backing file is removed.
type ModelDescriptor struct {
	Name      string // file name without extension, e.g. "qwen2.5-1.5b-q4_k_m"
	Path      string // absolute path to the .gguf file
	Quant     string // quantization tag parsed from the name, e.g. "q4_k_m"
	Params    string // parameter-count tag parsed from the name, e.g. "1.5b"
	SizeBytes int64
}

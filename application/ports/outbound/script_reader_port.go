package outbound

// ScriptReaderPort loads a script file and returns its normalized text.
// Supported formats are decided by the adapter; unreadable or unsupported
// files surface as *domain.InputError.
type ScriptReaderPort interface {
	Read(path string) (string, error)
}

package segment

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// FileType classifies the content of a file.
type FileType string

const (
	FileTypeImage    FileType = "image"
	FileTypeDocument FileType = "document"
	FileTypeAudio    FileType = "audio"
	FileTypeVideo    FileType = "video"
	FileTypeCustom   FileType = "custom"
)

// TransferMethod records how a file reached the workflow.
type TransferMethod string

const (
	TransferRemoteURL TransferMethod = "remote_url"
	TransferLocalFile TransferMethod = "local_file"
	TransferToolFile  TransferMethod = "tool_file"
)

// FileIdentityKey marks a raw mapping as a serialized File.
// Build decodes mappings carrying FileIdentityKey = FileIdentity into file segments.
const (
	FileIdentityKey = "model_identity"
	FileIdentity    = "__file__"
)

// File is a reference to an uploaded, remote or tool-produced file.
// Empty optional fields are reported as absent attributes.
type File struct {
	ID             string         `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	TenantID       string         `json:"tenant_id,omitempty" yaml:"tenant_id,omitempty" mapstructure:"tenant_id"`
	Type           FileType       `json:"type" yaml:"type" mapstructure:"type"`
	TransferMethod TransferMethod `json:"transfer_method" yaml:"transfer_method" mapstructure:"transfer_method"`
	RemoteURL      string         `json:"remote_url,omitempty" yaml:"remote_url,omitempty" mapstructure:"remote_url"`
	RelatedID      string         `json:"related_id,omitempty" yaml:"related_id,omitempty" mapstructure:"related_id"`
	Filename       string         `json:"filename,omitempty" yaml:"filename,omitempty" mapstructure:"filename"`
	Extension      string         `json:"extension,omitempty" yaml:"extension,omitempty" mapstructure:"extension"`
	MimeType       string         `json:"mime_type,omitempty" yaml:"mime_type,omitempty" mapstructure:"mime_type"`
	Size           int64          `json:"size" yaml:"size" mapstructure:"size"`
}

// Markdown renders the file as a markdown link, or an image for image files.
func (f File) Markdown() string {
	link := fmt.Sprintf("[%s](%s)", f.Filename, f.RemoteURL)
	if f.Type == FileTypeImage {
		return "!" + link
	}
	return link
}

// FileAttribute names a property derived from a File on demand.
type FileAttribute string

const (
	AttrType           FileAttribute = "type"
	AttrSize           FileAttribute = "size"
	AttrName           FileAttribute = "name"
	AttrMimeType       FileAttribute = "mime_type"
	AttrTransferMethod FileAttribute = "transfer_method"
	AttrURL            FileAttribute = "url"
	AttrExtension      FileAttribute = "extension"
	AttrRelatedID      FileAttribute = "related_id"
)

var fileAttributes = map[FileAttribute]struct{}{
	AttrType:           {},
	AttrSize:           {},
	AttrName:           {},
	AttrMimeType:       {},
	AttrTransferMethod: {},
	AttrURL:            {},
	AttrExtension:      {},
	AttrRelatedID:      {},
}

// ParseAttribute reports whether s names a recognized file attribute.
func ParseAttribute(s string) (FileAttribute, bool) {
	attr := FileAttribute(s)
	_, ok := fileAttributes[attr]
	return attr, ok
}

// FileAttr computes attr for f. Unset optional fields yield nil, which Build turns into None.
func FileAttr(f File, attr FileAttribute) any {
	switch attr {
	case AttrType:
		return string(f.Type)
	case AttrSize:
		return f.Size
	case AttrName:
		return optional(f.Filename)
	case AttrMimeType:
		return optional(f.MimeType)
	case AttrTransferMethod:
		return string(f.TransferMethod)
	case AttrURL:
		return optional(f.RemoteURL)
	case AttrExtension:
		return optional(f.Extension)
	case AttrRelatedID:
		return optional(f.RelatedID)
	}
	return nil
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// DecodeFile decodes a loosely typed mapping (JSON, YAML) into a File.
func DecodeFile(raw map[string]any) (File, error) {
	var f File
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &f,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return File{}, fmt.Errorf("failed to create file decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return File{}, fmt.Errorf("failed to decode file: %w", err)
	}
	return f, nil
}

func isFileMapping(raw map[string]any) bool {
	identity, ok := raw[FileIdentityKey].(string)
	return ok && identity == FileIdentity
}

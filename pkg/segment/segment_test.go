package segment_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/aretw0/weft/pkg/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Scalars(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		kind segment.Kind
		text string
	}{
		{"nil", nil, segment.KindNone, ""},
		{"string", "hello", segment.KindString, "hello"},
		{"int", 42, segment.KindNumber, "42"},
		{"uint8", uint8(7), segment.KindNumber, "7"},
		{"float", 1.5, segment.KindNumber, "1.5"},
		{"bool true", true, segment.KindNumber, "1"},
		{"json number int", json.Number("12"), segment.KindNumber, "12"},
		{"json number float", json.Number("0.25"), segment.KindNumber, "0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg, err := segment.Build(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, seg.Kind())
			assert.Equal(t, tt.text, seg.Text())
		})
	}
}

func TestBuild_UnsignedRange(t *testing.T) {
	seg, err := segment.Build(uint64(math.MaxInt64))
	require.NoError(t, err)
	assert.Equal(t, "9223372036854775807", seg.Text())

	for _, raw := range []any{uint64(math.MaxUint64), uint64(math.MaxInt64) + 1} {
		_, err := segment.Build(raw)
		assert.ErrorIs(t, err, segment.ErrUnsupportedValue, "%v must not wrap negative", raw)
	}
}

func TestBuild_Containers(t *testing.T) {
	seg, err := segment.Build(map[string]any{
		"b":    []any{1, "two"},
		"a":    "x",
		"tags": []string{"red", "blue"},
	})
	require.NoError(t, err)

	obj, ok := seg.(segment.Object)
	require.True(t, ok, "expected object, got %T", seg)
	assert.Equal(t, []string{"a", "b", "tags"}, obj.Keys())
	assert.Equal(t, `{"a":"x","b":[1,"two"],"tags":["red","blue"]}`, obj.Text())

	tags, ok := obj.Field("tags")
	require.True(t, ok)
	assert.Equal(t, segment.KindArray, tags.Kind())
	assert.Equal(t, "- red\n- blue", tags.Markdown())
}

func TestBuild_FileMapping(t *testing.T) {
	seg, err := segment.Build(map[string]any{
		segment.FileIdentityKey: segment.FileIdentity,
		"type":                  "image",
		"transfer_method":       "remote_url",
		"remote_url":            "https://example.com/cat.png",
		"filename":              "cat.png",
		"extension":             ".png",
		"size":                  "2048",
	})
	require.NoError(t, err)

	fs, ok := seg.(segment.FileSegment)
	require.True(t, ok, "expected file segment, got %T", seg)
	assert.Equal(t, int64(2048), fs.File().Size)
	assert.Equal(t, "![cat.png](https://example.com/cat.png)", fs.Markdown())
	assert.Equal(t, "", fs.Text())
}

func TestBuild_Unsupported(t *testing.T) {
	_, err := segment.Build(make(chan int))
	assert.ErrorIs(t, err, segment.ErrUnsupportedValue)

	_, err = segment.Build(map[string]any{"nested": []any{func() {}}})
	assert.ErrorIs(t, err, segment.ErrUnsupportedValue)
}

func TestBuild_SegmentsPassThrough(t *testing.T) {
	s := segment.NewString("kept")
	got, err := segment.Build(s)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	v := segment.NewVariable("greeting", s)
	got, err = segment.Build(v)
	require.NoError(t, err)
	assert.Equal(t, s, got, "variables are unwrapped to their value")
}

func TestFileAttr(t *testing.T) {
	f := segment.File{
		Type:           segment.FileTypeDocument,
		TransferMethod: segment.TransferLocalFile,
		Filename:       "report.pdf",
		Extension:      ".pdf",
		MimeType:       "application/pdf",
		Size:           10,
		RelatedID:      "upload-1",
	}

	assert.Equal(t, "document", segment.FileAttr(f, segment.AttrType))
	assert.Equal(t, int64(10), segment.FileAttr(f, segment.AttrSize))
	assert.Equal(t, "report.pdf", segment.FileAttr(f, segment.AttrName))
	assert.Equal(t, ".pdf", segment.FileAttr(f, segment.AttrExtension))
	assert.Equal(t, "local_file", segment.FileAttr(f, segment.AttrTransferMethod))
	assert.Equal(t, "upload-1", segment.FileAttr(f, segment.AttrRelatedID))
	assert.Nil(t, segment.FileAttr(f, segment.AttrURL), "unset url is absent")
}

func TestParseAttribute(t *testing.T) {
	attr, ok := segment.ParseAttribute("extension")
	assert.True(t, ok)
	assert.Equal(t, segment.AttrExtension, attr)

	_, ok = segment.ParseAttribute("owner")
	assert.False(t, ok)
}

func TestGroup_Rendering(t *testing.T) {
	g := segment.NewGroup(
		segment.NewString("n="),
		segment.NewInt(3),
		segment.None{},
		segment.NewString("!"),
	)
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, "n=3!", g.Text())
	assert.Equal(t, segment.KindGroup, g.Kind())
}

func TestFromSegment(t *testing.T) {
	v := segment.FromSegment(segment.NewInt(1), []string{"node", "out", "count"})
	assert.Equal(t, "count", v.Name)
	assert.Equal(t, []string{"node", "out", "count"}, v.Selector)
	assert.Equal(t, segment.KindNumber, v.Kind())
	assert.Equal(t, "1", v.Text())
}

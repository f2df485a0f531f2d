// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"reflect"
	"testing"
)

func TestParseResponse(t *testing.T) {
	orig := Translation{
		Title:    "Original Title",
		Abstract: "Original abstract.",
		Keywords: []string{"zero-knowledge", "lattices"},
	}

	tests := []struct {
		name  string
		input string
		want  Translation
	}{
		{
			name:  "all three fields",
			input: "TITLE: A\nABSTRACT: B\nKEYWORDS: x, y",
			want:  Translation{Title: "A", Abstract: "B", Keywords: []string{"x", "y"}},
		},
		{
			name:  "no markers keeps originals",
			input: "The model ignored the format and rambled instead.",
			want:  orig,
		},
		{
			name:  "empty response keeps originals",
			input: "",
			want:  orig,
		},
		{
			name:  "multi-line abstract accumulates",
			input: "ABSTRACT: line1\nline2",
			want:  Translation{Title: orig.Title, Abstract: "line1\nline2", Keywords: orig.Keywords},
		},
		{
			name:  "marker flushes previous field",
			input: "TITLE: 번역된 제목\ncontinued title\nABSTRACT: 번역된 초록",
			want:  Translation{Title: "번역된 제목\ncontinued title", Abstract: "번역된 초록", Keywords: orig.Keywords},
		},
		{
			name:  "keywords trim and drop empty segments",
			input: "KEYWORDS: 영지식 증명 , , 격자 ,",
			want:  Translation{Title: orig.Title, Abstract: orig.Abstract, Keywords: []string{"영지식 증명", "격자"}},
		},
		{
			name:  "keywords do not accumulate across lines",
			input: "KEYWORDS: one, two\nthree, four",
			want:  Translation{Title: orig.Title, Abstract: orig.Abstract, Keywords: []string{"one", "two"}},
		},
		{
			name:  "lines before any marker are discarded",
			input: "Here is your translation:\nTITLE: 제목",
			want:  Translation{Title: "제목", Abstract: orig.Abstract, Keywords: orig.Keywords},
		},
		{
			name:  "surrounding whitespace tolerated",
			input: "\n\nTITLE: 제목\n\nABSTRACT: 초록\n\n",
			want:  Translation{Title: "제목", Abstract: "초록", Keywords: orig.Keywords},
		},
		{
			name:  "title only",
			input: "TITLE: 제목",
			want:  Translation{Title: "제목", Abstract: orig.Abstract, Keywords: orig.Keywords},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseResponse(tt.input, orig)
			if got.Title != tt.want.Title {
				t.Errorf("Title = %q, want %q", got.Title, tt.want.Title)
			}
			if got.Abstract != tt.want.Abstract {
				t.Errorf("Abstract = %q, want %q", got.Abstract, tt.want.Abstract)
			}
			if !reflect.DeepEqual(got.Keywords, tt.want.Keywords) {
				t.Errorf("Keywords = %v, want %v", got.Keywords, tt.want.Keywords)
			}
		})
	}
}

func TestParseResponse_EndOfInputFlushesOpenField(t *testing.T) {
	orig := Translation{Title: "t", Abstract: "a"}
	got := ParseResponse("ABSTRACT: first\nsecond\nthird", orig)
	if got.Abstract != "first\nsecond\nthird" {
		t.Errorf("Abstract = %q, want the accumulated three lines", got.Abstract)
	}
}

func TestSplitKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{" a, b ,c ", []string{"a", "b", "c"}},
		{"", nil},
		{" , , ", nil},
		{"single", []string{"single"}},
	}
	for _, tt := range tests {
		if got := splitKeywords(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitKeywords(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

package render

import "testing"

func TestParseBlocks_MixedDocument(t *testing.T) {
	blocks := ParseBlocks("# Title\n- item one\n- item two\n**bold** text")
	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d: %+v", len(blocks), blocks)
	}
	if blocks[0].Kind != BlockHeading1 || blocks[0].Text() != "Title" {
		t.Fatalf("unexpected heading block: %+v", blocks[0])
	}
	if blocks[1].Kind != BlockBullet || blocks[1].Text() != "item one" {
		t.Fatalf("unexpected first bullet: %+v", blocks[1])
	}
	if blocks[2].Kind != BlockBullet || blocks[2].Text() != "item two" {
		t.Fatalf("unexpected second bullet: %+v", blocks[2])
	}
	para := blocks[3]
	if para.Kind != BlockParagraph || len(para.Runs) != 2 {
		t.Fatalf("expected paragraph with 2 runs, got %+v", para)
	}
	if !para.Runs[0].Bold || para.Runs[0].Text != "bold" {
		t.Fatalf("first run must be bold %q, got %+v", "bold", para.Runs[0])
	}
	if para.Runs[1].Bold || para.Runs[1].Text != " text" {
		t.Fatalf("second run must be plain %q, got %+v", " text", para.Runs[1])
	}
}

func TestParseBlocks_HeadingLevels(t *testing.T) {
	cases := map[string]BlockKind{
		"# One":     BlockHeading1,
		"## Two":    BlockHeading2,
		"### Three": BlockHeading3,
	}
	for line, want := range cases {
		blocks := ParseBlocks(line)
		if len(blocks) != 1 || blocks[0].Kind != want {
			t.Fatalf("classify %q: got %+v want kind %d", line, blocks, want)
		}
	}
}

func TestParseBlocks_Lists(t *testing.T) {
	blocks := ParseBlocks("* star bullet\n1. first\n12. twelfth")
	if blocks[0].Kind != BlockBullet || blocks[0].Text() != "star bullet" {
		t.Fatalf("star bullet: %+v", blocks[0])
	}
	if blocks[1].Kind != BlockNumbered || blocks[1].Text() != "first" {
		t.Fatalf("numbered: %+v", blocks[1])
	}
	if blocks[2].Kind != BlockNumbered || blocks[2].Text() != "twelfth" {
		t.Fatalf("two-digit numbered: %+v", blocks[2])
	}
}

func TestParseBlocks_BlankLinesSkipped(t *testing.T) {
	blocks := ParseBlocks("para one\n\n\n   \npara two")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(blocks))
	}
}

func TestParseBlocks_BoldMidSentence(t *testing.T) {
	blocks := ParseBlocks("start **middle** end")
	runs := blocks[0].Runs
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %+v", runs)
	}
	if runs[0].Bold || !runs[1].Bold || runs[2].Bold {
		t.Fatalf("bold parity wrong: %+v", runs)
	}
}

func TestParseBlocks_PlainParagraph(t *testing.T) {
	blocks := ParseBlocks("just a line")
	if blocks[0].Kind != BlockParagraph || blocks[0].Runs[0].Bold {
		t.Fatalf("plain paragraph: %+v", blocks[0])
	}
}

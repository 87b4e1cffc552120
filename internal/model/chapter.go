package model

type ChapterKind string

const (
	ChapterReal        ChapterKind = "real"
	ChapterPlaceholder ChapterKind = "placeholder"
)

const PlaceholderTitle = "Classified"

// Chapter 是章节列表中的一项：真实章节或尚未创建的占位章节。
// 调用方按 Kind 分支处理，占位章节没有 Content。
type Chapter struct {
	Kind       ChapterKind `json:"kind"`
	Number     int         `json:"chapterNumber"`
	Title      string      `json:"title"`
	Accessible bool        `json:"accessible"`
	Content    *Content    `json:"content,omitempty"`
}

func RealChapter(c *Content, accessible bool) Chapter {
	return Chapter{
		Kind:       ChapterReal,
		Number:     c.ChapterNumber,
		Title:      c.Title,
		Accessible: accessible,
		Content:    c,
	}
}

func PlaceholderChapter(number int) Chapter {
	return Chapter{
		Kind:   ChapterPlaceholder,
		Number: number,
		Title:  PlaceholderTitle,
	}
}

func (c Chapter) IsPlaceholder() bool {
	return c.Kind == ChapterPlaceholder
}

// ChapterListing 章节页数据，Revealed 表示隐藏章节是否已揭晓
type ChapterListing struct {
	Chapters []Chapter `json:"chapters"`
	Revealed bool      `json:"revealed"`
}

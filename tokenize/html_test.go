package tokenize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageHTML = `<html><head><title>T</title><style>p{color:red}</style></head>
<body>
<nav>Home About</nav>
<div class="content"><p>Fess is very powerful</p><p>and easily deployable</p></div>
<script>var ignored = true;</script>
<footer>Copyright</footer>
</body></html>`

func TestHTMLText_Raw(t *testing.T) {
	h, err := NewHTMLText("raw", "", nil, "")
	require.NoError(t, err)

	got := Collect(h, pageHTML)
	assert.Equal(t, []string{"Home", "About", "Fess", "is", "very", "powerful", "and", "easily", "deployable", "Copyright"}, got)
}

func TestHTMLText_Selector(t *testing.T) {
	h, err := NewHTMLText("raw", "div.content", nil, "")
	require.NoError(t, err)

	got := Collect(h, pageHTML)
	assert.Equal(t, []string{"Fess", "is", "very", "powerful", "and", "easily", "deployable"}, got)
}

func TestHTMLText_SelectorWithoutMatchKeepsDocument(t *testing.T) {
	h, err := NewHTMLText("raw", "article", nil, "")
	require.NoError(t, err)

	assert.Contains(t, Collect(h, pageHTML), "Copyright")
}

func TestHTMLText_Exclude(t *testing.T) {
	h, err := NewHTMLText("raw", "", []string{"nav", "footer"}, "")
	require.NoError(t, err)

	got := Collect(h, pageHTML)
	assert.NotContains(t, got, "Home")
	assert.NotContains(t, got, "Copyright")
	assert.Contains(t, got, "deployable")
}

func TestHTMLText_ReadabilityFallsBackOnShortContent(t *testing.T) {
	h, err := NewHTMLText("readability", "", nil, "https://example.com/page")
	require.NoError(t, err)

	got := Collect(h, `<html><body><p>tiny page</p></body></html>`)
	assert.Equal(t, []string{"tiny", "page"}, got)
}

func TestHTMLText_ReadabilityArticle(t *testing.T) {
	h, err := NewHTMLText("", "", nil, "https://example.com/post")
	require.NoError(t, err)

	body := strings.Repeat("MinHash signatures estimate the Jaccard similarity of token sets. ", 20)
	doc := `<html><body><article><h1>Post</h1><p>` + body + `</p></article></body></html>`
	got := Collect(h, doc)
	assert.Contains(t, got, "Jaccard")
	assert.NotContains(t, got, "<p>")
}

func TestNewHTMLText_Validation(t *testing.T) {
	_, err := NewHTMLText("markdown", "", nil, "")
	assert.Error(t, err)

	_, err = NewHTMLText("raw", "p[", nil, "")
	assert.Error(t, err)

	_, err = NewHTMLText("raw", "", []string{"p["}, "")
	assert.Error(t, err)

	_, err = NewHTMLText("raw", "", nil, "http://[::1")
	assert.Error(t, err)
}

func TestDOMTags(t *testing.T) {
	html1 := `<html><head><title>Page 1</title></head><body><div><h1>Hello</h1><p>World</p></div></body></html>`
	html2 := `<html><head><title>Page 2</title></head><body><div><h1>Hi</h1><p>Earth</p></div></body></html>`

	tok := DOMTags{}
	assert.Equal(t, Collect(tok, html1), Collect(tok, html2))
	assert.Equal(t, []string{
		"html_head_title", "head_title_body", "title_body_div", "body_div_h1", "div_h1_p",
	}, Collect(tok, html1))
}

func TestDOMTags_EdgeCases(t *testing.T) {
	assert.Nil(t, Collect(DOMTags{}, ""))
	assert.Nil(t, Collect(DOMTags{}, "just some plain text with no tags"))
	assert.Equal(t, []string{"br"}, Collect(DOMTags{}, "<br/>"))
	assert.Equal(t, []string{"div_p"}, Collect(DOMTags{N: 2}, "<div><p>x</p></div>"))
}

func TestExtractTags(t *testing.T) {
	htmlStr := `<html><head><title>Test</title></head><body><div><p>Hello</p></div></body></html>`
	assert.Equal(t, []string{"html", "head", "title", "body", "div", "p"}, extractTags(htmlStr))
}

package markdown

import (
	"bytes"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// codeRendererPriority places the fenced-code renderer ahead of goldmark's
// built-in HTML renderer (priority 1000).
const codeRendererPriority = 200

// lexerFor resolves a fenced block's declared language to a chroma lexer,
// falling back to plain text when the language is empty or unknown.
func lexerFor(language string) chroma.Lexer {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// styleFor returns the named chroma style or the fallback style.
func styleFor(name string) *chroma.Style {
	style := styles.Get(name)
	if style == nil {
		style = styles.Fallback
	}
	return style
}

// codeBlockRenderer renders fenced code blocks through chroma's HTML
// formatter using CSS classes, so colours come from the widget stylesheet.
type codeBlockRenderer struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

func newCodeBlockRenderer(style *chroma.Style) *codeBlockRenderer {
	return &codeBlockRenderer{
		style:     style,
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	language := ""
	if n.Info != nil {
		// Language() is the info string up to the first space
		language = strings.ToLower(string(n.Language(source)))
	}

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	if err := r.highlight(w, code.String(), language); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkSkipChildren, nil
}

func (r *codeBlockRenderer) highlight(w io.Writer, code, language string) error {
	iterator, err := lexerFor(language).Tokenise(nil, code)
	if err != nil {
		return err
	}
	return r.formatter.Format(w, r.style, iterator)
}

// codeBlockExtension installs codeBlockRenderer into a goldmark instance.
func codeBlockExtension(style *chroma.Style) renderer.Option {
	return renderer.WithNodeRenderers(util.Prioritized(newCodeBlockRenderer(style), codeRendererPriority))
}

// CSS writes the stylesheet for the class names emitted by highlighted code
// blocks, using the named chroma style.
func CSS(w io.Writer, styleName string) error {
	return chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(w, styleFor(styleName))
}

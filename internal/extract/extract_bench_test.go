package extract

import (
	"strings"
	"testing"
)

// Compare the DOM walk with the regex pipeline on the same documents.
func BenchmarkExtractors(b *testing.B) {
	small := []byte("<html><head><title>t</title></head><body><main><p>a</p></main></body></html>")
	large := makeHTML(200, 200)

	for _, tc := range []struct {
		name string
		in   []byte
	}{{"small", small}, {"large", large}} {
		b.Run("dom/"+tc.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = FromHTML(tc.in)
			}
		})
		b.Run("regex/"+tc.name, func(b *testing.B) {
			raw := string(tc.in)
			for i := 0; i < b.N; i++ {
				_ = Readable(raw, PageLimit)
			}
		})
	}
}

func makeHTML(paras int, itemsPerList int) []byte {
	builder := new(strings.Builder)
	builder.WriteString("<html><head><title>demo</title><script>var x = 1;</script></head><body><nav>menu</nav><main>")
	for i := 0; i < paras; i++ {
		builder.WriteString("<h2>Heading</h2><p>")
		builder.WriteString(sampleText)
		builder.WriteString("</p>")
	}
	builder.WriteString("<ul>")
	for i := 0; i < itemsPerList; i++ {
		builder.WriteString("<li>")
		builder.WriteString(sampleText)
		builder.WriteString("</li>")
	}
	builder.WriteString("</ul></main><footer>bye</footer></body></html>")
	return []byte(builder.String())
}

const sampleText = "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua."

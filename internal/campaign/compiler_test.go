package campaign

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

type fixedPicker struct {
	idx int
}

func (p fixedPicker) Pick(n int) int {
	return p.idx % n
}

func TestCompileVariationSplitsOnBreaks(t *testing.T) {
	steps := CompileVariation("primeira{{quebra}}segunda{{quebra}}{{quebra}}  ", nil, fixedPicker{})
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d: %#v", len(steps), steps)
	}
	if steps[0].Msg != "primeira" || steps[1].Msg != "segunda" {
		t.Errorf("unexpected text steps: %#v", steps)
	}
}

func TestCompileVariationMediaTags(t *testing.T) {
	media := []MediaAsset{
		{Kind: KindImage, URL: "https://cdn.test/a.png"},
		{Kind: KindDocument, URL: "https://cdn.test/manual.pdf"},
	}
	template := `{{imagem alt="foto"}}{{quebra}}{{doc alt=""}}`

	steps := CompileVariation(template, media, fixedPicker{})
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	img := steps[0]
	if img.Type != "image" || img.FileURL != "https://cdn.test/a.png" {
		t.Errorf("unexpected image step: %#v", img)
	}
	if img.MIMEType != "image/png" {
		t.Errorf("image mimetype = %q, want image/png", img.MIMEType)
	}
	if img.Msg != "foto" {
		t.Errorf("image caption = %q, want foto", img.Msg)
	}
	doc := steps[1]
	if doc.Type != "document" || doc.MIMEType != "application/pdf" {
		t.Errorf("unexpected document step: %#v", doc)
	}
}

func TestCompileVariationEmptyPool(t *testing.T) {
	steps := CompileVariation(`{{video alt="clipe"}}`, nil, fixedPicker{})
	if len(steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(steps))
	}
	if steps[0].Type != "video" || steps[0].FileURL != "" {
		t.Errorf("empty pool should yield an empty file reference, got %#v", steps[0])
	}
}

func TestCompileVariationSeededPickIsDeterministic(t *testing.T) {
	media := []MediaAsset{
		{Kind: KindImage, URL: "https://cdn.test/1.png"},
		{Kind: KindImage, URL: "https://cdn.test/2.png"},
		{Kind: KindImage, URL: "https://cdn.test/3.png"},
	}
	template := `{{imagem alt=""}}{{quebra}}{{imagem alt=""}}{{quebra}}{{imagem alt=""}}`

	first := CompileVariation(template, media, NewSeededPicker(42))
	second := CompileVariation(template, media, NewSeededPicker(42))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same seed produced different picks:\n%#v\n%#v", first, second)
	}
}

func TestCompileVariationSeededPickCoversPool(t *testing.T) {
	media := []MediaAsset{
		{Kind: KindImage, URL: "https://cdn.test/1.png"},
		{Kind: KindImage, URL: "https://cdn.test/2.png"},
	}
	pick := NewSeededPicker(7)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		steps := CompileVariation(`{{imagem alt=""}}`, media, pick)
		seen[steps[0].FileURL] = true
	}
	if len(seen) != 2 {
		t.Errorf("expected both pool entries to be drawn, saw %v", seen)
	}
}

func TestCompileVariationFallbackAppendsMedia(t *testing.T) {
	media := []MediaAsset{
		{Kind: KindDocument, URL: "https://cdn.test/tabela.pdf", Name: "tabela.pdf"},
		{Kind: KindImage, URL: "https://cdn.test/capa.png"},
		{Kind: KindImage, URL: ""},
	}

	steps := CompileVariation("sem marcadores aqui", media, fixedPicker{})
	if len(steps) != 3 {
		t.Fatalf("expected text plus 2 hosted assets, got %d: %#v", len(steps), steps)
	}
	if steps[0].Type != "text" {
		t.Errorf("first step should be the text, got %#v", steps[0])
	}
	if steps[1].FileURL != "https://cdn.test/tabela.pdf" || steps[1].Msg != "tabela.pdf" {
		t.Errorf("upload order not preserved: %#v", steps[1])
	}
	if steps[2].FileURL != "https://cdn.test/capa.png" {
		t.Errorf("upload order not preserved: %#v", steps[2])
	}
}

func TestCompileCampaignDropsEmptyVariations(t *testing.T) {
	variations := []Variation{
		{Message: "oi"},
		{Message: "   "},
		{Message: "{{quebra}}"},
		{Message: "tchau"},
	}
	compiled := CompileCampaign(variations, fixedPicker{})
	if len(compiled) != 2 {
		t.Fatalf("expected 2 variations, got %d", len(compiled))
	}
}

func TestCompileCampaignPoolsDoNotCrossVariations(t *testing.T) {
	variations := []Variation{
		{
			Message: `{{imagem alt=""}}`,
			Media:   []MediaAsset{{Kind: KindImage, URL: "https://cdn.test/only-var1.png"}},
		},
		{Message: `{{imagem alt=""}}`},
	}

	compiled := CompileCampaign(variations, fixedPicker{})
	if len(compiled) != 2 {
		t.Fatalf("expected 2 variations, got %d", len(compiled))
	}
	if compiled[0][0].FileURL != "https://cdn.test/only-var1.png" {
		t.Errorf("variation 1 should draw from its own pool: %#v", compiled[0][0])
	}
	if compiled[1][0].FileURL != "" {
		t.Errorf("variation 2 has no media and must compile to an empty reference, got %q", compiled[1][0].FileURL)
	}
}

func TestCompiledStepWireShape(t *testing.T) {
	steps := CompileVariation(`Olá{{quebra}}{{imagem alt="foto"}}`,
		[]MediaAsset{{Kind: KindImage, URL: "https://cdn.test/1.png"}}, fixedPicker{})

	raw, err := json.Marshal(steps)
	if err != nil {
		t.Fatal(err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded[0]["msg"] != "Olá" || decoded[0]["type"] != "text" {
		t.Errorf("text step must carry its body in msg: %v", decoded[0])
	}
	if decoded[1]["msg"] != "foto" || decoded[1]["mimetype"] != "image/png" {
		t.Errorf("media step must carry its caption in msg: %v", decoded[1])
	}
	for i, step := range decoded {
		if _, ok := step["msg"]; !ok {
			t.Errorf("step %d is missing the msg field: %v", i, step)
		}
	}
}

func TestCompiledStepEmptyCaptionSerializes(t *testing.T) {
	steps := CompileVariation(`{{doc alt=""}}`,
		[]MediaAsset{{Kind: KindDocument, URL: "https://cdn.test/m.pdf"}}, fixedPicker{})

	raw, err := json.Marshal(steps[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"msg":""`) {
		t.Errorf("empty caption must still serialize: %s", raw)
	}
}

func TestCompileVariationKeepsUnknownTokensAsText(t *testing.T) {
	steps := CompileVariation(`Olá {{nome}}{{quebra}}{{imagem alt="foto"}}{{quebra}}Obrigado`,
		[]MediaAsset{{Kind: KindImage, URL: "https://cdn.test/foto.png"}}, fixedPicker{})
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d: %#v", len(steps), steps)
	}
	if steps[0].Msg != "Olá {{nome}}" {
		t.Errorf("personalization token must survive in the text: %q", steps[0].Msg)
	}
	if steps[1].Type != "image" || steps[1].Msg != "foto" {
		t.Errorf("unexpected media step: %#v", steps[1])
	}
	if steps[2].Msg != "Obrigado" {
		t.Errorf("unexpected closing step: %#v", steps[2])
	}
}

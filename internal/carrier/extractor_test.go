package carrier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestExtractNilPayload(t *testing.T) {
	info := Extract(nil)

	assert.Equal(t, DefaultName, info.Name)
	assert.Equal(t, DefaultShipping, info.ShippingMethod)
}

func TestExtractMalformedPayload(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"not json",
		"[1,2,3]",
		`"apenas uma string"`,
		"null",
		`{"formaEnvio": "não é objeto"}`,
	}

	for _, raw := range cases {
		info := Extract(strPtr(raw))
		assert.Equal(t, DefaultName, info.Name, "payload: %q", raw)
		assert.Equal(t, DefaultShipping, info.ShippingMethod, "payload: %q", raw)
	}
}

func TestExtractNamePriority(t *testing.T) {
	// formaEnvio.nome 优先于顶层 nome
	info := Extract(strPtr(`{"formaEnvio":{"nome":"Jadlog"},"nome":"Correios"}`))
	assert.Equal(t, "Jadlog", info.Name)

	info = Extract(strPtr(`{"nome":"Correios"}`))
	assert.Equal(t, "Correios", info.Name)
}

func TestExtractShippingPriority(t *testing.T) {
	info := Extract(strPtr(`{"formaFrete":{"nome":"Expresso"},"forma_frete":"Econômico"}`))
	assert.Equal(t, "Expresso", info.ShippingMethod)

	info = Extract(strPtr(`{"forma_frete":"Econômico"}`))
	assert.Equal(t, "Econômico", info.ShippingMethod)

	info = Extract(strPtr(`{"nome":"Correios"}`))
	assert.Equal(t, DefaultShipping, info.ShippingMethod)
}

func TestCleanNameStripsSpeedQualifier(t *testing.T) {
	cases := map[string]string{
		"Correios Sedex 10":      "Correios",
		"Correios SEDEX":         "Correios",
		"Correios PAC Mini":      "Correios",
		"Total Express Urgente":  "Total",
		"Jadlog":                 "Jadlog",
		"  Braspress  ":          "Braspress",
		"Transportadora Pacotes": "Transportadora Pacotes", // 限定词必须是独立词
	}

	for in, want := range cases {
		assert.Equal(t, want, CleanName(in), "input: %q", in)
	}
}

func TestExtractQualifierOnlyNameFallsBack(t *testing.T) {
	// 清洗后剩空串时回退默认名
	info := Extract(strPtr(`{"nome":"Sedex 10"}`))
	assert.Equal(t, DefaultName, info.Name)
}

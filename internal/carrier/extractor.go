package carrier

import (
	"encoding/json"
	"strings"
)

// 承运 payload 解析。payload 是数仓透传的 JSON 文本，来源系统五花八门，
// 为空、非对象、缺字段都是常态，这里一律回退默认值，绝不报错。

const (
	// DefaultName 承运商缺省名
	DefaultName = "Não definida"
	// DefaultShipping 运输方式缺省值
	DefaultShipping = "-"
)

// Info 归一化后的承运信息
type Info struct {
	Name           string
	ShippingMethod string
}

// 名称尾部的时效限定词，命中后连同其后内容一并截掉
var speedQualifiers = map[string]bool{
	"sedex":   true,
	"pac":     true,
	"express": true,
}

// Extract 从承运 payload 提取归一化承运信息。纯函数，无 I/O，
// CarrierDirectory 与告警合并共用同一套规则。
func Extract(raw *string) Info {
	info := Info{Name: DefaultName, ShippingMethod: DefaultShipping}

	if raw == nil || strings.TrimSpace(*raw) == "" {
		return info
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(*raw), &obj); err != nil || obj == nil {
		return info
	}

	// 名称优先取 formaEnvio.nome，其次顶层 nome
	name := nestedString(obj, "formaEnvio", "nome")
	if name == "" {
		name = stringField(obj, "nome")
	}
	if cleaned := CleanName(name); cleaned != "" {
		info.Name = cleaned
	}

	// 运输方式优先取 formaFrete.nome，其次扁平 forma_frete
	shipping := nestedString(obj, "formaFrete", "nome")
	if shipping == "" {
		shipping = stringField(obj, "forma_frete")
	}
	if shipping = strings.TrimSpace(shipping); shipping != "" {
		info.ShippingMethod = shipping
	}

	return info
}

// CleanName 截掉名称尾部的时效限定词（大小写不敏感）及其后所有内容。
// "Correios Sedex 10" -> "Correios"
func CleanName(name string) string {
	fields := strings.Fields(name)
	for i, f := range fields {
		if speedQualifiers[strings.ToLower(f)] {
			return strings.Join(fields[:i], " ")
		}
	}

	return strings.TrimSpace(name)
}

func stringField(obj map[string]interface{}, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}

func nestedString(obj map[string]interface{}, outer, inner string) string {
	nested, ok := obj[outer].(map[string]interface{})
	if !ok {
		return ""
	}
	return stringField(nested, inner)
}

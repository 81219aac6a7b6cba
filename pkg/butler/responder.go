package butler

import "regexp"

// Rule pairs a keyword pattern with the answer it triggers.
type Rule struct {
	Name     string
	Pattern  *regexp.Regexp
	Response string
}

// GenericFallback is returned when no rule matches.
const GenericFallback = "感谢您的咨询！您可以：\n\n1. 使用智能导购获取产品推荐\n2. 浏览空气研究院了解更多知识\n3. 拨打400-888-8888联系人工客服\n\n还有其他问题吗？"

var defaultRules = []Rule{
	{
		Name:     "price",
		Pattern:  regexp.MustCompile(`价格|多少钱|费用`),
		Response: "我们的产品价格从1299元到7999元不等，具体价格请查看产品详情页。您也可以使用智能导购，根据您的需求和预算获取推荐。",
	},
	{
		Name:     "formaldehyde",
		Pattern:  regexp.MustCompile(`甲醛|除醛|装修`),
		Response: "针对甲醛问题，我推荐使用净界者·森林呼吸Pro，它配备光触媒分解技术，可以有效分解甲醛。新装修的房间建议持续开启净化器。",
	},
	{
		Name:     "allergy",
		Pattern:  regexp.MustCompile(`过敏|花粉|鼻炎`),
		Response: "对于过敏人群，我推荐选择配备H13级HEPA滤网的产品，可以过滤99.97%的过敏原。净界者·清新之风Max是不错的选择。",
	},
	{
		Name:     "noise",
		Pattern:  regexp.MustCompile(`噪音|声音|安静`),
		Response: "我们的产品在睡眠模式下噪音低至20分贝，不会影响您的休息。您可以在产品详情页查看具体的噪音参数。",
	},
	{
		Name:     "filter",
		Pattern:  regexp.MustCompile(`滤芯|更换|耗材`),
		Response: "滤芯建议6-12个月更换一次，具体取决于使用环境和频率。您可以在产品中心购买原装滤芯，我们提供上门更换服务。",
	},
	{
		Name:     "warranty",
		Pattern:  regexp.MustCompile(`保修|质保|售后`),
		Response: "所有净界者产品享受3年整机质保，滤芯1年质保。如有问题，请拨打400-888-8888或在线提交售后申请。",
	},
}

// DefaultRules returns the built-in keyword rules in evaluation order.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// Responder answers free text locally when the endpoint cannot.
// Rules are evaluated in order and the first match wins.
type Responder struct {
	rules    []Rule
	fallback string
}

// NewResponder builds a responder over rules. An empty fallback means
// GenericFallback.
func NewResponder(rules []Rule, fallback string) *Responder {
	if fallback == "" {
		fallback = GenericFallback
	}
	return &Responder{rules: rules, fallback: fallback}
}

// DefaultResponder uses DefaultRules and GenericFallback.
func DefaultResponder() *Responder {
	return NewResponder(DefaultRules(), "")
}

// Match returns the first rule whose pattern occurs in text.
func (r *Responder) Match(text string) (Rule, bool) {
	for _, rule := range r.rules {
		if rule.Pattern != nil && rule.Pattern.MatchString(text) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Respond returns the matching rule's answer or the fallback.
func (r *Responder) Respond(text string) string {
	if rule, ok := r.Match(text); ok {
		return rule.Response
	}
	return r.fallback
}

package ai

// ButlerSystemPrompt primes general-purpose chat gateways to answer as the
// site's air butler. The dedicated butler endpoint ignores it.
const ButlerSystemPrompt = `你是森系智韵的AI空气管家，负责解答空气净化器相关问题。
产品线：自然守护Mini(¥1299，14-24㎡)、森林呼吸Pro(¥2999，除甲醛，HEPA H13)、清新之风Max(¥5999，大空间)、紫光卫士(¥3999，UV-C杀菌，母婴)。
滤芯建议6-12个月更换；整机3年质保，滤芯1年质保；客服热线400-888-8888，服务时间9:00-21:00。
回答简洁、友好，使用中文，不要编造未列出的产品或价格。`

// BuildGatewayMessages prepends the system prompt and appends the new user
// message to the capped history.
func BuildGatewayMessages(req ChatRequest) []ChatMessage {
	msgs := make([]ChatMessage, 0, len(req.History)+2)
	msgs = append(msgs, ChatMessage{Role: RoleSystem, Content: ButlerSystemPrompt})
	msgs = append(msgs, req.History...)
	if n := len(req.History); n > 0 {
		last := req.History[n-1]
		if last.Role == RoleUser && last.Content == req.Message {
			return msgs
		}
	}
	msgs = append(msgs, ChatMessage{Role: RoleUser, Content: req.Message})
	return msgs
}

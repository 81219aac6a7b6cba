package butler

// ActionTag identifies which canned answer a quick reply produces.
type ActionTag string

const (
	ActionRecommend ActionTag = "recommend"
	ActionKnowledge ActionTag = "knowledge"
	ActionService   ActionTag = "service"
	ActionContact   ActionTag = "contact"
)

// QuickReply is a suggested message that bypasses free text and the network.
type QuickReply struct {
	Text   string
	Action ActionTag
}

// WelcomeMessage is appended the first time the widget opens.
const WelcomeMessage = "您好！我是森系智韵的AI空气管家。有什么可以帮助您的吗？"

// NoAnswerMessage replaces an empty or absent endpoint response.
const NoAnswerMessage = "抱歉，我暂时无法回答这个问题。请稍后再试或联系人工客服。"

var cannedResponses = map[ActionTag]string{
	ActionRecommend: "根据您的需求，我推荐以下产品：\n\n1. 净界者·森林呼吸Pro - 适合40-60㎡空间\n2. 净界者·清新之风Max - 适合大户型\n\n您可以前往智能导购获取更精准的推荐。",
	ActionKnowledge: "空气研究院为您提供专业的空气健康知识：\n\n• PM2.5的危害与防护\n• 甲醛去除指南\n• 室内空气质量标准\n\n点击导航栏\"空气研究院\"了解更多。",
	ActionService:   "售后服务支持：\n\n• 产品保修：3年整机质保\n• 滤芯更换：支持上门服务\n• 故障报修：400-888-8888\n\n工作时间：9:00-21:00",
	ActionContact:   "联系方式：\n\n📞 客服热线：400-888-8888\n📧 邮箱：service@senxi-air.com\n💬 在线客服：工作日9:00-21:00\n\n您也可以直接在这里向我提问！",
}

// DefaultQuickReplies returns the fixed catalog in display order.
func DefaultQuickReplies() []QuickReply {
	return []QuickReply{
		{Text: "推荐产品", Action: ActionRecommend},
		{Text: "空气知识", Action: ActionKnowledge},
		{Text: "售后服务", Action: ActionService},
		{Text: "联系客服", Action: ActionContact},
	}
}

// CannedResponse returns the fixed answer for an action tag.
func CannedResponse(tag ActionTag) (string, bool) {
	text, ok := cannedResponses[tag]
	return text, ok
}

package service

import (
	"strings"

	"lifepulse/internal/domain"
)

// 健康助手的固定回复规则。关键词命中即返回，顺序敏感。
type replyRule struct {
	keywords []string
	reply    string
}

var replyRules = []replyRule{
	{
		keywords: []string{"hello", "hi", "hey"},
		reply:    "Hello! I'm your health assistant. How can I help you today?",
	},
	{
		keywords: []string{"fever", "temperature", "hot"},
		reply:    "For fever, I recommend: 1) Rest and stay hydrated, 2) Take acetaminophen or ibuprofen as directed if needed, 3) Use a lukewarm compress if comfortable, and 4) Seek medical attention if your fever is very high (above 103°F/39.4°C) or lasts more than three days.",
	},
	{
		keywords: []string{"headache", "migraine"},
		reply:    "For headaches, try these approaches: 1) Drink water as dehydration is a common cause, 2) Rest in a quiet, dark room if you have a migraine, 3) Apply a warm or cold compress to your head or neck, 4) Try over-the-counter pain relievers as directed. If headaches are severe or persistent, please consult your doctor.",
	},
	{
		keywords: []string{"cold", "flu", "cough", "congestion"},
		reply:    "For cold and flu symptoms: 1) Get plenty of rest, 2) Stay hydrated with water and warm liquids like tea, 3) Use over-the-counter medications as directed to relieve symptoms, 4) Consider using a humidifier, and 5) Wash your hands frequently to prevent spreading germs. See a doctor if symptoms are severe or last more than 10 days.",
	},
	{
		keywords: []string{"stomach", "nausea", "vomit", "diarrhea"},
		reply:    "For stomach issues: 1) Stay hydrated with small sips of water or clear fluids, 2) Try bland foods like rice, toast, or bananas once you can eat, 3) Avoid dairy, caffeine, alcohol, and fatty or spicy foods, 4) Rest and consider over-the-counter remedies appropriate for your specific symptoms. If symptoms are severe or persistent, please consult a healthcare provider.",
	},
	{
		keywords: []string{"sleep", "insomnia", "can't sleep"},
		reply:    "To improve sleep: 1) Maintain a consistent sleep schedule, 2) Create a relaxing bedtime routine, 3) Make your bedroom dark, quiet, and comfortable, 4) Limit screen time before bed, 5) Avoid caffeine and large meals close to bedtime, and 6) Consider relaxation techniques like deep breathing or meditation.",
	},
	{
		keywords: []string{"stress", "anxiety", "worried"},
		reply:    "For managing stress and anxiety: 1) Practice deep breathing exercises, 2) Try meditation or mindfulness, 3) Get regular physical activity, 4) Ensure you're getting enough sleep, 5) Connect with supportive friends or family, and 6) Consider professional help if anxiety is significantly affecting your daily life.",
	},
	{
		keywords: []string{"back pain", "muscle pain", "joint pain"},
		reply:    "For pain management: 1) Apply ice for acute injuries (first 48 hours) and heat for chronic pain, 2) Practice gentle stretching and movement as tolerated, 3) Maintain good posture, 4) Consider over-the-counter pain relievers as directed, and 5) See a healthcare provider if pain is severe, worsening, or accompanied by other concerning symptoms.",
	},
	{
		keywords: []string{"diet", "nutrition", "eat", "food"},
		reply:    "For a balanced diet: 1) Focus on plenty of fruits, vegetables, and whole grains, 2) Include lean proteins like fish, poultry, beans, and nuts, 3) Choose healthy fats from sources like olive oil and avocados, 4) Limit processed foods, added sugars, and excessive salt, and 5) Stay hydrated by drinking plenty of water throughout the day.",
	},
	{
		keywords: []string{"exercise", "workout", "fitness"},
		reply:    "For exercise recommendations: 1) Aim for at least 150 minutes of moderate aerobic activity weekly, 2) Include strength training exercises at least twice a week, 3) Start slowly if you're new to exercise and gradually increase intensity, 4) Choose activities you enjoy to help maintain consistency, and 5) Always warm up before and cool down after exercise.",
	},
}

const defaultReply = "I understand you're asking about your health. For specific medical advice, it's always best to consult with a healthcare professional. I can offer general wellness tips like staying hydrated, getting regular exercise, ensuring adequate sleep, eating a balanced diet, and managing stress through relaxation techniques. Would you like me to elaborate on any of these general wellness areas?"

const emptyReply = "I'm waiting for your message. How can I help you today?"

// Companion 规则驱动的健康助手：聊天回复、健康建议、药品识别
type Companion struct{}

func NewCompanion() *Companion {
	return &Companion{}
}

// Reply 根据用户消息内容给出回复
func (c *Companion) Reply(message string) string {
	text := strings.ToLower(strings.TrimSpace(message))
	if text == "" {
		return emptyReply
	}
	for _, rule := range replyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.reply
			}
		}
	}
	return defaultReply
}

var defaultSuggestions = []string{
	"Stay hydrated by drinking at least 8 glasses of water daily",
	"Aim for 7-9 hours of quality sleep each night",
	"Include 30 minutes of moderate exercise in your daily routine",
}

// Suggestions 从最新健康数据派生改进建议和优先级
func (c *Companion) Suggestions(stats *domain.HealthStats) ([]string, string) {
	priority := "medium"
	var out []string

	if stats != nil {
		if stats.HydrationGlasses < stats.HydrationGoal {
			out = append(out, "Increase your water intake to reach your daily hydration goal")
		}
		if stats.StepsGoal > 0 && stats.Steps < stats.StepsGoal/2 {
			out = append(out, "Take a short walk to get closer to your daily step goal")
			priority = "high"
		}
		if stats.HeartRate > 100 {
			out = append(out, "Your resting heart rate is elevated; consider relaxation exercises and consult a doctor if it persists")
			priority = "high"
		}
		if len(out) == 0 {
			priority = "low"
		}
	}

	for _, s := range defaultSuggestions {
		if len(out) >= 3 {
			break
		}
		out = append(out, s)
	}
	return out[:3], priority
}

// MedicineInfo 扫描识别出的药品档案
type MedicineInfo struct {
	Name        string
	Dosage      string
	Frequency   string
	SideEffects []string
}

var medicineTable = []MedicineInfo{
	{
		Name:        "Aspirin",
		Dosage:      "81mg",
		Frequency:   "Once daily",
		SideEffects: []string{"Upset stomach", "Heartburn"},
	},
	{
		Name:        "Lisinopril",
		Dosage:      "10mg",
		Frequency:   "Once daily in the morning",
		SideEffects: []string{"Dizziness", "Cough"},
	},
	{
		Name:        "Metformin",
		Dosage:      "500mg",
		Frequency:   "Twice daily with meals",
		SideEffects: []string{"Nausea", "Diarrhea"},
	},
	{
		Name:        "Ibuprofen",
		Dosage:      "200mg",
		Frequency:   "Every 6 hours as needed",
		SideEffects: []string{"Stomach pain", "Drowsiness"},
	},
	{
		Name:        "Loratadine",
		Dosage:      "10mg",
		Frequency:   "Once daily",
		SideEffects: []string{"Headache", "Dry mouth"},
	},
}

// LookupMedicine 按名称匹配已知药品，未命中时返回通用提示档案
func (c *Companion) LookupMedicine(name string) MedicineInfo {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, m := range medicineTable {
		if strings.Contains(needle, strings.ToLower(m.Name)) {
			return m
		}
	}
	return MedicineInfo{
		Name:      name,
		Dosage:    "Please consult your healthcare provider for proper dosage",
		Frequency: "As directed by your doctor or pharmacist",
		SideEffects: []string{
			"Always read your medication label carefully",
			"Consult your healthcare provider for information about your specific medication",
		},
	}
}

package domain

// KbildOptionSet names one of the four Likert answer scales. Every scale is valued 1..7.
type KbildOptionSet string

const (
	KbildFrequency1 KbildOptionSet = "frequency_1"
	KbildFrequency2 KbildOptionSet = "frequency_2"
	KbildControl    KbildOptionSet = "control"
	KbildAmount     KbildOptionSet = "amount"
)

const (
	KbildQuestionCount = 15
	KbildMinAnswer     = 1
	KbildMaxAnswer     = 7
)

type KbildOption struct {
	Value   int    `json:"val"`
	Label   string `json:"label"`
	LabelHi string `json:"labelHi"`
}

type KbildQuestion struct {
	ID        int            `json:"id"`
	TextEn    string         `json:"textEn"`
	TextHi    string         `json:"textHi"`
	OptionSet KbildOptionSet `json:"optionType"`
}

var KbildOptions = map[KbildOptionSet][]KbildOption{
	KbildFrequency1: {
		{Value: 1, Label: "Every time", LabelHi: "हर बार"},
		{Value: 2, Label: "Most times", LabelHi: "अधिकांश समय"},
		{Value: 3, Label: "Several times", LabelHi: "बहुत बार"},
		{Value: 4, Label: "Some times", LabelHi: "कभी-कभी"},
		{Value: 5, Label: "Occasionally", LabelHi: "कभी न कभी"},
		{Value: 6, Label: "Rarely", LabelHi: "शायद ही कभी"},
		{Value: 7, Label: "Never", LabelHi: "कभी नहीं"},
	},
	KbildFrequency2: {
		{Value: 1, Label: "All of the time", LabelHi: "हर समय"},
		{Value: 2, Label: "Most of the time", LabelHi: "सर्वाधिक समय"},
		{Value: 3, Label: "A good bit of the time", LabelHi: "समय का अच्छा क्षण"},
		{Value: 4, Label: "Some of the time", LabelHi: "कुछ समय"},
		{Value: 5, Label: "A little of the time", LabelHi: "थोड़ा समय"},
		{Value: 6, Label: "Hardly any of the time", LabelHi: "शायद ही कभी"},
		{Value: 7, Label: "None of the time", LabelHi: "कभी नहीं"},
	},
	KbildControl: {
		{Value: 1, Label: "None of the time", LabelHi: "कभी नहीं"},
		{Value: 2, Label: "Hardly any of the time", LabelHi: "शायद ही कभी"},
		{Value: 3, Label: "A little of the time", LabelHi: "थोड़ा समय"},
		{Value: 4, Label: "Some of the time", LabelHi: "कुछ समय"},
		{Value: 5, Label: "A good bit of the time", LabelHi: "समय का अच्छा क्षण"},
		{Value: 6, Label: "Most of the time", LabelHi: "सर्वाधिक समय"},
		{Value: 7, Label: "All of the time", LabelHi: "हर समय"},
	},
	KbildAmount: {
		{Value: 1, Label: "A significant amount", LabelHi: "बहुत बड़ी मात्रा में"},
		{Value: 2, Label: "A large amount", LabelHi: "बड़ी मात्रा में"},
		{Value: 3, Label: "A considerable amount", LabelHi: "काफी मात्रा में"},
		{Value: 4, Label: "A reasonable amount", LabelHi: "उचित मात्रा में"},
		{Value: 5, Label: "A small amount", LabelHi: "छोटी मात्रा में"},
		{Value: 6, Label: "Hardly at all", LabelHi: "मुश्किल से ही"},
		{Value: 7, Label: "Not at all", LabelHi: "हरगिज़ नहीं"},
	},
}

var KbildQuestions = []KbildQuestion{
	{ID: 1, TextEn: "In the last 2 weeks, I have been breathless climbing stairs or walking up an incline or hill.", TextHi: "पिछले 2 सप्ताह में, मुझे सीढ़ियां चढ़ने या एक झुकाव या पहाड़ी पर चलने से मेरा सांस फूल रहा है।", OptionSet: KbildFrequency1},
	{ID: 2, TextEn: "In the last 2 weeks, because of my lung condition, my chest has felt tight.", TextHi: "पिछले 2 सप्ताह में, फेफड़ों की स्थिति के कारण मेरी छाती में जकड़न महसूस हुई है?", OptionSet: KbildFrequency2},
	{ID: 3, TextEn: "In the last 2 weeks have you worried about the seriousness of your lung complaint?", TextHi: "क्या पिछले 2 सप्ताह से आप फेफड़े की रोग की गंभीरता से चिंतित हैं?", OptionSet: KbildFrequency2},
	{ID: 4, TextEn: "In the last 2 weeks have you avoided doing things that make you breathless?", TextHi: "पिछले 2 सप्ताह में, क्या आपने उन चीजों के सेवन से परहेज किया है जिनसे सांस फूलती है?", OptionSet: KbildFrequency2},
	{ID: 5, TextEn: "In the last 2 weeks have you felt in control of your lung condition?", TextHi: "पिछले 2 सप्ताह में, क्या आपने महसूस किया कि फेफड़ों की स्थिति नियंत्रण में है?", OptionSet: KbildControl},
	{ID: 6, TextEn: "In the last 2 weeks, has your lung complaint made you feel fed up or down in the dumps?", TextHi: "पिछले 2 सप्ताह में, आपको फेफड़ों की परेशानी ने आपको डंप या तंग किया है?", OptionSet: KbildFrequency2},
	{ID: 7, TextEn: "In the last 2 weeks, I have felt the urge to breathe, also known as ‘air hunger’.", TextHi: "पिछले 2 सप्ताह में, मैंने सांस लेने की तीव्र इच्छा महसूस किया है जिसे 'वायु की भूख' भी कहा जाता है।", OptionSet: KbildFrequency2},
	{ID: 8, TextEn: "In the last 2 weeks, my lung condition has made me feel anxious.", TextHi: "पिछले 2 सप्ताह में, मेरे फेफड़ों की स्थिति ने मुझे चिंतित किया है?", OptionSet: KbildFrequency2},
	{ID: 9, TextEn: "In the last 2 weeks, how often have you experienced ‘wheeze’ or whistling sounds from your chest?", TextHi: "पिछले 2 सप्ताह में, आपने कितनी बार फेफड़ों में घरघराहट या सीटी बजने का अनुभव किया है?", OptionSet: KbildFrequency2},
	{ID: 10, TextEn: "In the last 2 weeks, how much of the time have you felt your lung disease is getting worse?", TextHi: "पिछले 2 सप्ताह में, आपने कितना समय महसूस किया है कि आपके फेफड़ों की बीमारी बदतर हो रही है?", OptionSet: KbildFrequency2},
	{ID: 11, TextEn: "In the last 2 weeks has your lung condition interfered with your job or other daily tasks?", TextHi: "क्या पिछले 2 सप्ताह में, आपके फेफड़ों की स्थिति ने आपकी नौकरी या अन्य दैनिक कार्यों में हस्तक्षेप किया है?", OptionSet: KbildFrequency2},
	{ID: 12, TextEn: "In the last 2 weeks have you expected your lung complaint to get worse?", TextHi: "क्या पिछले 2 सप्ताह में, आपने अपने फेफड़ों की रोग को और खराब होने की उम्मीद की है?", OptionSet: KbildFrequency2},
	{ID: 13, TextEn: "In the last 2 weeks, how much has your lung condition limited you carrying things, for example, groceries?", TextHi: "पिछले 2 सप्ताह में, आपके फेफड़ों की स्थिति ने आपके द्वारा ले जाने वाली चीजों को कितना सीमित कर दिया है?", OptionSet: KbildFrequency2},
	{ID: 14, TextEn: "In the last 2 weeks, has your lung condition made you think more about the end of your life?", TextHi: "पिछले 2 सप्ताह में, आपके फेफड़ों की स्थिति ने आपको अपने जीवन के अंत के बारे में अधिक सोचने के लिए प्रेरित किया है?", OptionSet: KbildFrequency2},
	{ID: 15, TextEn: "Are you financially worse off because of your lung condition?", TextHi: "क्या आप अपने फेफड़ों की स्थिति के कारण आंशिक रूप से बुरे हालात में हैं?", OptionSet: KbildAmount},
}

// KbildQuestionByID returns the question with the given 1-based id.
func KbildQuestionByID(id int) (KbildQuestion, bool) {
	if id < 1 || id > len(KbildQuestions) {
		return KbildQuestion{}, false
	}
	return KbildQuestions[id-1], true
}

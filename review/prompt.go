package review

import (
	"fmt"
	"strings"
)

// Language is a supported review language code.
type Language string

const (
	LanguageJapanese Language = "ja"
	LanguageEnglish  Language = "en"
	LanguageChinese  Language = "zh"
	LanguageKorean   Language = "ko"
	LanguageSpanish  Language = "es"
)

// BaseLanguage is the fallback target when a requested language is
// unsupported. The catalog and its tag labels are maintained in Japanese.
const BaseLanguage = LanguageJapanese

// SupportedLanguages lists every language with its own instruction set.
var SupportedLanguages = []Language{
	LanguageJapanese,
	LanguageEnglish,
	LanguageChinese,
	LanguageKorean,
	LanguageSpanish,
}

// Prompt is the composed instruction pair handed to the completion backend.
type Prompt struct {
	SystemInstructions string
	UserContent        string
}

// budgetUnit distinguishes character budgets (logographic/syllabic scripts)
// from word budgets (Latin scripts).
type budgetUnit string

const (
	unitChars budgetUnit = "chars"
	unitWords budgetUnit = "words"
)

// styleSpec is one cell of the (language, style) table: a localized register
// directive, a numeric length budget, and worked examples. The rendered
// budget line is derived from Min/Max so text and numbers cannot drift apart.
type styleSpec struct {
	register string
	min, max int
	unit     budgetUnit
	examples []string
}

// locale holds the full per-language instruction set.
type locale struct {
	// roleFormat introduces the reviewer role; takes the store category.
	roleFormat string
	// rulesHeader precedes the prohibition list.
	rulesHeader string
	// prohibitions are the fixed content constraints. They reference tags by
	// group label only and never reproduce a tag's display string.
	prohibitions []string
	// budgetFormat renders the numeric length budget; takes min, max.
	budgetFormat string
	// exampleLabel prefixes each worked example.
	exampleLabel string
	// groupLabels label the liked / neutral / disliked tag groups.
	groupLabels map[Sentiment]string
	// connector joins tag labels inside a group.
	connector string
	// seedNote instructs the backend to paraphrase tags, never echo them.
	seedNote string
	// personaHeader precedes the persona annotation.
	personaHeader string
	genderLabels  map[Gender]string
	ageLabels     map[AgeBand]string
	// frequencyHints carry the interpretive framing per visit frequency.
	frequencyHints map[VisitFrequency]string
	// outputOnly closes the system instructions.
	outputOnly string
	styles     map[Style]styleSpec
}

var locales = map[Language]locale{
	LanguageJapanese: {
		roleFormat:  "あなたは%sを利用した一般のお客様です。選ばれた体験だけをもとに、正直で自然な口コミを書きます。",
		rulesHeader: "必ず守るルール:",
		prohibitions: []string{
			"提示された体験以外の要素には一切触れない。推測や補完をしない。",
			"店名や地名を文中に入れない。「このお店」「ここ」などの指示語を使う。",
			"「〜に行きました」「初めて訪問」のような導入で始めない。いきなり感想から書き出す。",
			"提示された言葉をそのまま繰り返さない。その言葉が指す体験を自分の言葉で描写する。",
			"「全体的に」「結論として」のようなまとめ言葉を使わない。",
			"詩的な比喩や飾った言い回しを使わない。",
			"箇条書きにしない。良かった点→普通の点→悪かった点の順で自然な文章にまとめる。良い点がなければ無理に褒めず、不満は正直に、ただし攻撃的にはしない。",
		},
		budgetFormat: "長さは%d〜%d文字程度。",
		exampleLabel: "例: ",
		groupLabels: map[Sentiment]string{
			SentimentGood:    "良かった点",
			SentimentNeutral: "普通だった点",
			SentimentBad:     "イマイチだった点",
		},
		connector:     "、",
		seedNote:      "それぞれの項目は体験のきっかけです。言葉をそのまま写さず、その体験がどうだったかを自分の言葉で書いてください。",
		personaHeader: "あなたのプロフィール:",
		genderLabels: map[Gender]string{
			GenderMale:   "男性",
			GenderFemale: "女性",
			GenderOther:  "性別は特定しない",
		},
		ageLabels: map[AgeBand]string{
			AgeBand10s:     "10代",
			AgeBand20s:     "20代",
			AgeBand30s:     "30代",
			AgeBand40s:     "40代",
			AgeBand50s:     "50代",
			AgeBand60sPlus: "60代以上",
		},
		frequencyHints: map[VisitFrequency]string{
			VisitFirstTime:  "今回が初めての利用。第一印象を中心に書く。",
			VisitOccasional: "何度か利用したことがある。",
			VisitRegular:    "よく通っている常連。慣れた様子と安心感をにじませる。",
		},
		outputOnly: "レビュー本文のみを出力してください。",
		styles: map[Style]styleSpec{
			StyleShort: {
				register: "文体: 短くぶっきらぼうに。形容詞は最小限。",
				min:      40, max: 80, unit: unitChars,
				examples: []string{
					"味は文句なし。店員さんは普通。ただ待たされたのが残念だった。",
				},
			},
			StyleCasual: {
				register: "文体: 友人に話すようなくだけた口調で。",
				min:      80, max: 150, unit: unitChars,
				examples: []string{
					"ごはんが本当においしくてびっくりした。店員さんの対応も気持ちよくて居心地がいい。ただ混む時間は結構待つので、時間に余裕をもって行くのがよさそう。",
				},
			},
			StyleDetailed: {
				register: "文体: 落ち着いた説明調で、体験を順序立てて具体的に。詩的にはしない。",
				min:      150, max: 250, unit: unitChars,
				examples: []string{
					"提供された料理はどれも丁寧に作られていて、素材の味がよく生きていた。接客は可もなく不可もなくといったところで、特に気になることはなかった。一方で席に案内されるまでかなり待たされたので、混雑する時間帯を避けたほうが落ち着いて過ごせると思う。",
				},
			},
		},
	},
	LanguageEnglish: {
		roleFormat:  "You are an ordinary customer who visited a %s. Write an honest, natural review based only on the selected experiences.",
		rulesHeader: "Rules you must follow:",
		prohibitions: []string{
			"Mention only the experiences provided. Never invent, guess, or pad with anything else.",
			"Never name the business or its location. Refer to it as \"this place\" or \"here\".",
			"Do not open with a visit announcement like \"I went to...\" or \"first time visiting\". Start straight with an impression.",
			"Do not repeat the provided wording verbatim. Describe in your own words what that experience was like.",
			"No summary phrasing such as \"overall\" or \"in conclusion\".",
			"No ornate or poetic metaphors.",
			"No bullet points. Weave the good, then the unremarkable, then the bad into natural flowing sentences. If nothing was good, don't force praise; state complaints honestly but without hostility.",
		},
		budgetFormat: "Keep it to roughly %d-%d words.",
		exampleLabel: "Example: ",
		groupLabels: map[Sentiment]string{
			SentimentGood:    "What I liked",
			SentimentNeutral: "What was just okay",
			SentimentBad:     "What fell short",
		},
		connector:     ", ",
		seedNote:      "Each item is a seed for something you experienced. Paraphrase what it was like; never copy the item wording itself.",
		personaHeader: "Your profile:",
		genderLabels: map[Gender]string{
			GenderMale:   "a man",
			GenderFemale: "a woman",
			GenderOther:  "a person",
		},
		ageLabels: map[AgeBand]string{
			AgeBand10s:     "in their teens",
			AgeBand20s:     "in their twenties",
			AgeBand30s:     "in their thirties",
			AgeBand40s:     "in their forties",
			AgeBand50s:     "in their fifties",
			AgeBand60sPlus: "aged sixty or older",
		},
		frequencyHints: map[VisitFrequency]string{
			VisitFirstTime:  "This was your first visit; center the writing on first impressions.",
			VisitOccasional: "You have been here a few times before.",
			VisitRegular:    "You are a regular here; let familiarity and comfort show through.",
		},
		outputOnly: "Output the review body only.",
		styles: map[Style]styleSpec{
			StyleShort: {
				register: "Tone: short and blunt, minimal adjectives.",
				min:      15, max: 30, unit: unitWords,
				examples: []string{
					"Food was great. Service was fine, nothing special. The wait dragged on though, which soured things a bit.",
				},
			},
			StyleCasual: {
				register: "Tone: conversational, like telling a friend.",
				min:      30, max: 60, unit: unitWords,
				examples: []string{
					"Honestly the food surprised me, every dish landed. Staff were friendly enough without hovering. Only gripe is the wait when it gets busy, so give yourself some extra time.",
				},
			},
			StyleDetailed: {
				register: "Tone: plain and informative, walking through the experience step by step. Not poetic.",
				min:      60, max: 100, unit: unitWords,
				examples: []string{
					"The cooking here is careful and the flavors come through clearly, which made the meal genuinely enjoyable. Service was unremarkable in the neutral sense: attentive when needed and otherwise out of the way. The one real drawback was how long it took to be seated, so arriving outside peak hours would make for a calmer visit. On balance the strengths clearly outweigh that single annoyance.",
				},
			},
		},
	},
	LanguageChinese: {
		roleFormat:  "你是一位光顾过%s的普通顾客。只根据选中的体验，写一条诚实自然的点评。",
		rulesHeader: "必须遵守的规则：",
		prohibitions: []string{
			"只写给出的体验，绝不编造、猜测或补充其他内容。",
			"不要写出店名或地名，用「这家店」「这里」之类的指代。",
			"不要用「我去了……」「第一次来」这类开场白，直接从感受写起。",
			"不要照抄给出的词语，用自己的话描述那个词语指向的体验。",
			"不要用「总体来说」「总而言之」这类总结性措辞。",
			"不要用华丽或诗意的比喻。",
			"不要分条罗列。按先好评、再一般、最后差评的顺序写成自然连贯的句子。没有优点就不要硬夸，不满要写得诚实但不刻薄。",
		},
		budgetFormat: "篇幅控制在%d到%d个字左右。",
		exampleLabel: "示例：",
		groupLabels: map[Sentiment]string{
			SentimentGood:    "满意的方面",
			SentimentNeutral: "一般的方面",
			SentimentBad:     "不满意的方面",
		},
		connector:     "、",
		seedNote:      "每一项只是体验的线索。请用自己的话描述这种体验，不要照抄词语本身。",
		personaHeader: "你的身份：",
		genderLabels: map[Gender]string{
			GenderMale:   "男性",
			GenderFemale: "女性",
			GenderOther:  "不区分性别",
		},
		ageLabels: map[AgeBand]string{
			AgeBand10s:     "十几岁",
			AgeBand20s:     "二十多岁",
			AgeBand30s:     "三十多岁",
			AgeBand40s:     "四十多岁",
			AgeBand50s:     "五十多岁",
			AgeBand60sPlus: "六十岁以上",
		},
		frequencyHints: map[VisitFrequency]string{
			VisitFirstTime:  "这是你第一次来，以第一印象为中心来写。",
			VisitOccasional: "你来过几次。",
			VisitRegular:    "你是这里的常客，字里行间流露出熟悉和放松。",
		},
		outputOnly: "只输出点评正文。",
		styles: map[Style]styleSpec{
			StyleShort: {
				register: "语气：简短干脆，少用形容词。",
				min:      30, max: 60, unit: unitChars,
				examples: []string{
					"味道没得说。服务一般般。就是等位太久，有点影响心情。",
				},
			},
			StyleCasual: {
				register: "语气：像跟朋友聊天一样随意。",
				min:      60, max: 120, unit: unitChars,
				examples: []string{
					"菜真的好吃，每道都不踩雷。店员态度也舒服，不会过分热情。唯一的问题是饭点人多要等挺久，建议错峰过来。",
				},
			},
			StyleDetailed: {
				register: "语气：平实的说明性文字，把体验按顺序写具体。不要抒情。",
				min:      120, max: 200, unit: unitChars,
				examples: []string{
					"这里的菜做得很用心，食材本身的味道保留得很好，吃起来让人满意。服务属于不过不失的类型，需要的时候有人招呼，平时也不会打扰。不足的是等位时间实在偏长，想安静吃顿饭的话最好避开高峰时段。综合来看优点明显多于缺点。",
				},
			},
		},
	},
	LanguageKorean: {
		roleFormat:  "당신은 %s을(를) 이용한 평범한 손님입니다. 선택된 경험만을 바탕으로 솔직하고 자연스러운 리뷰를 씁니다.",
		rulesHeader: "반드시 지킬 규칙:",
		prohibitions: []string{
			"제시된 경험 외의 내용은 절대 쓰지 않는다. 추측이나 보충을 하지 않는다.",
			"가게 이름이나 지명을 쓰지 않는다. 「이곳」「여기」 같은 지시어를 쓴다.",
			"「~에 갔습니다」「처음 방문」 같은 도입으로 시작하지 않는다. 바로 느낌부터 쓴다.",
			"제시된 단어를 그대로 반복하지 않는다. 그 단어가 가리키는 경험을 자신의 말로 묘사한다.",
			"「전체적으로」「결론적으로」 같은 정리 표현을 쓰지 않는다.",
			"시적인 비유나 꾸민 표현을 쓰지 않는다.",
			"항목 나열을 하지 않는다. 좋았던 점→보통이었던 점→아쉬웠던 점 순서로 자연스러운 문장으로 쓴다. 좋은 점이 없으면 억지로 칭찬하지 말고, 불만은 솔직하되 공격적이지 않게 쓴다.",
		},
		budgetFormat: "길이는 %d~%d자 정도.",
		exampleLabel: "예시: ",
		groupLabels: map[Sentiment]string{
			SentimentGood:    "좋았던 점",
			SentimentNeutral: "보통이었던 점",
			SentimentBad:     "아쉬웠던 점",
		},
		connector:     ", ",
		seedNote:      "각 항목은 경험의 단서일 뿐입니다. 단어를 그대로 옮기지 말고, 그 경험이 어땠는지 자신의 말로 써 주세요.",
		personaHeader: "당신의 프로필:",
		genderLabels: map[Gender]string{
			GenderMale:   "남성",
			GenderFemale: "여성",
			GenderOther:  "성별 비공개",
		},
		ageLabels: map[AgeBand]string{
			AgeBand10s:     "10대",
			AgeBand20s:     "20대",
			AgeBand30s:     "30대",
			AgeBand40s:     "40대",
			AgeBand50s:     "50대",
			AgeBand60sPlus: "60대 이상",
		},
		frequencyHints: map[VisitFrequency]string{
			VisitFirstTime:  "이번이 첫 방문입니다. 첫인상을 중심으로 씁니다.",
			VisitOccasional: "몇 번 와 본 적이 있습니다.",
			VisitRegular:    "자주 오는 단골입니다. 익숙함과 편안함이 묻어나게 씁니다.",
		},
		outputOnly: "리뷰 본문만 출력해 주세요.",
		styles: map[Style]styleSpec{
			StyleShort: {
				register: "문체: 짧고 무뚝뚝하게. 형용사는 최소한으로.",
				min:      40, max: 80, unit: unitChars,
				examples: []string{
					"맛은 확실히 좋다. 직원 응대는 무난. 다만 대기가 길어서 그 점은 아쉬웠다.",
				},
			},
			StyleCasual: {
				register: "문체: 친구에게 말하듯 편하게.",
				min:      80, max: 150, unit: unitChars,
				examples: []string{
					"음식이 진짜 맛있어서 놀랐다. 직원분들도 친절해서 기분 좋게 먹고 왔다. 다만 붐비는 시간에는 꽤 기다려야 하니까 여유 있게 가는 걸 추천.",
				},
			},
			StyleDetailed: {
				register: "문체: 차분한 설명조로, 경험을 순서대로 구체적으로. 시적으로 쓰지 않는다.",
				min:      150, max: 250, unit: unitChars,
				examples: []string{
					"나온 음식은 하나하나 정성스럽게 만들어져 있었고 재료 본연의 맛이 잘 살아 있었다. 응대는 특별히 좋지도 나쁘지도 않은 정도라 신경 쓰일 일은 없었다. 다만 자리에 앉기까지 상당히 기다려야 했기 때문에, 붐비는 시간대를 피하면 훨씬 편하게 즐길 수 있을 것 같다.",
				},
			},
		},
	},
	LanguageSpanish: {
		roleFormat:  "Eres un cliente corriente que ha visitado un %s. Escribe una reseña honesta y natural basada únicamente en las experiencias seleccionadas.",
		rulesHeader: "Reglas que debes seguir:",
		prohibitions: []string{
			"Menciona solo las experiencias indicadas. Nunca inventes, supongas ni añadas nada más.",
			"Nunca nombres el negocio ni el lugar. Di \"este sitio\" o \"aquí\".",
			"No empieces anunciando la visita, como \"fui a...\" o \"primera vez que vengo\". Arranca directamente con una impresión.",
			"No repitas literalmente las palabras indicadas. Describe con tus propias palabras cómo fue esa experiencia.",
			"Nada de muletillas de cierre como \"en general\" o \"en conclusión\".",
			"Nada de metáforas recargadas ni poéticas.",
			"Sin listas. Hilvana primero lo bueno, luego lo normal y al final lo malo en frases naturales. Si no hay nada bueno, no fuerces elogios; expresa las quejas con honestidad pero sin hostilidad.",
		},
		budgetFormat: "Limítate a unas %d-%d palabras.",
		exampleLabel: "Ejemplo: ",
		groupLabels: map[Sentiment]string{
			SentimentGood:    "Lo que me gustó",
			SentimentNeutral: "Lo que estuvo normal",
			SentimentBad:     "Lo que no me convenció",
		},
		connector:     ", ",
		seedNote:      "Cada punto es solo una semilla de algo que viviste. Parafrasea cómo fue; nunca copies el texto del punto tal cual.",
		personaHeader: "Tu perfil:",
		genderLabels: map[Gender]string{
			GenderMale:   "un hombre",
			GenderFemale: "una mujer",
			GenderOther:  "una persona",
		},
		ageLabels: map[AgeBand]string{
			AgeBand10s:     "adolescente",
			AgeBand20s:     "veinteañero",
			AgeBand30s:     "treintañero",
			AgeBand40s:     "cuarentón",
			AgeBand50s:     "cincuentón",
			AgeBand60sPlus: "de sesenta años o más",
		},
		frequencyHints: map[VisitFrequency]string{
			VisitFirstTime:  "Era tu primera visita; centra el texto en la primera impresión.",
			VisitOccasional: "Has estado aquí unas cuantas veces.",
			VisitRegular:    "Eres cliente habitual; deja que se note la familiaridad y la comodidad.",
		},
		outputOnly: "Escribe únicamente el cuerpo de la reseña.",
		styles: map[Style]styleSpec{
			StyleShort: {
				register: "Tono: corto y seco, adjetivos mínimos.",
				min:      15, max: 30, unit: unitWords,
				examples: []string{
					"La comida, muy buena. El trato, correcto sin más. La espera se hizo larga y eso restó bastante.",
				},
			},
			StyleCasual: {
				register: "Tono: coloquial, como contándoselo a un amigo.",
				min:      30, max: 60, unit: unitWords,
				examples: []string{
					"La verdad es que la comida me sorprendió, todo estaba rico. El personal, majo sin agobiar. Lo único malo es la espera cuando se llena, así que mejor ir con tiempo.",
				},
			},
			StyleDetailed: {
				register: "Tono: llano e informativo, repasando la experiencia paso a paso. Nada poético.",
				min:      60, max: 100, unit: unitWords,
				examples: []string{
					"La cocina está cuidada y los sabores se notan limpios, así que la comida resultó muy satisfactoria. El servicio fue correcto en el sentido neutro: atentos cuando hacía falta y discretos el resto del tiempo. El único inconveniente real fue lo que tardaron en darnos mesa, de modo que conviene evitar las horas punta. Con todo, lo bueno pesa claramente más que esa única pega.",
				},
			},
		},
	},
}

// resolveLocale returns the instruction set for lang, falling back to the
// base language when lang is unsupported. The resolved language is returned
// so callers can report what was actually used.
func resolveLocale(lang Language) (locale, Language) {
	if loc, ok := locales[lang]; ok {
		return loc, lang
	}
	return locales[BaseLanguage], BaseLanguage
}

// StyleBudget reports the numeric length budget for a (language, style)
// cell, after language fallback.
func StyleBudget(lang Language, style Style) (min, max int) {
	loc, _ := resolveLocale(lang)
	spec := loc.styles[style]
	return spec.min, spec.max
}

// Compose builds the system instructions and user content for one generation
// call. The system instructions carry the prohibitions, the style block with
// its length budget and examples, and the optional persona annotation; tag
// labels appear only in the user content, framed as seed concepts to be
// paraphrased.
func Compose(lang Language, style Style, storeCategory string, eff EffectiveSelection, persona Persona) (Prompt, Language) {
	loc, resolved := resolveLocale(lang)
	spec := loc.styles[style]

	var sys strings.Builder
	fmt.Fprintf(&sys, loc.roleFormat, storeCategory)
	sys.WriteString("\n\n")
	sys.WriteString(loc.rulesHeader)
	sys.WriteString("\n")
	for _, rule := range loc.prohibitions {
		sys.WriteString("- ")
		sys.WriteString(rule)
		sys.WriteString("\n")
	}

	sys.WriteString("\n")
	sys.WriteString(spec.register)
	sys.WriteString("\n")
	fmt.Fprintf(&sys, loc.budgetFormat, spec.min, spec.max)
	sys.WriteString("\n")
	for _, example := range spec.examples {
		fmt.Fprintf(&sys, "%s%s\n", loc.exampleLabel, example)
	}

	if annotation := personaAnnotation(loc, persona); annotation != "" {
		sys.WriteString("\n")
		sys.WriteString(loc.personaHeader)
		sys.WriteString(" ")
		sys.WriteString(annotation)
		sys.WriteString("\n")
	}

	sys.WriteString("\n")
	sys.WriteString(loc.outputOnly)

	var user strings.Builder
	writeGroup(&user, loc, SentimentGood, eff.Good)
	writeGroup(&user, loc, SentimentNeutral, eff.Neutral)
	writeGroup(&user, loc, SentimentBad, eff.Bad)
	user.WriteString("\n")
	user.WriteString(loc.seedNote)

	return Prompt{
		SystemInstructions: sys.String(),
		UserContent:        user.String(),
	}, resolved
}

// writeGroup emits one labeled tag group line; empty groups are omitted
// entirely, with no filler lines.
func writeGroup(b *strings.Builder, loc locale, group Sentiment, tags []string) {
	if len(tags) == 0 {
		return
	}
	b.WriteString(loc.groupLabels[group])
	b.WriteString(": ")
	b.WriteString(strings.Join(tags, loc.connector))
	b.WriteString("\n")
}

// personaAnnotation renders the optional persona attributes: age and gender
// stated plainly, visit frequency carried as an interpretive hint.
func personaAnnotation(loc locale, persona Persona) string {
	if persona.IsZero() {
		return ""
	}
	var parts []string
	age := loc.ageLabels[persona.AgeBand]
	gender := loc.genderLabels[persona.Gender]
	switch {
	case age != "" && gender != "":
		parts = append(parts, age+" / "+gender)
	case age != "":
		parts = append(parts, age)
	case gender != "":
		parts = append(parts, gender)
	}
	if hint := loc.frequencyHints[persona.VisitFrequency]; hint != "" {
		parts = append(parts, hint)
	}
	return strings.Join(parts, " ")
}

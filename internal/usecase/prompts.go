package usecase

import (
	"encoding/json"
	"fmt"

	"github.com/AX07/cryptoax07-visual-generator/internal/domain/entity"
)

const designSystemInstruction = `
**ACT AS:** Expert Visual Director for a Luxury Media Brand (CryptoAX07).

**YOUR GOAL:**
I will provide you with a short text Headline. You must generate 3 distinct, "Prompt-Engineered" descriptions.

**CRITICAL RULE: CONSISTENT VISUAL DNA**
All 3 variants MUST share the exact same aesthetic. They should look like they belong in the same gallery.
1. **Camera:** Always "85mm lens, f/1.8 aperture, shallow depth of field".
2. **Render:** Always "Unreal Engine 5, Octane Render, 8K, Hyper-realistic".
3. **Lighting:** Always "Cinematic rim lighting, volumetric atmosphere, dark vignette".
4. **Color Palette:** Deep Navy/Black Void background with Gold/Silver Hero objects.

**STRICT TYPOGRAPHY RULES (GOLD KEYWORD STRATEGY):**
1. **EXACT TEXT:** You MUST include the exact headline provided.
2. **FONT:** "Massive, Bold Condensed Sans-Serif" (e.g., Impact, Helvetica Bold).
3. **COLOR SPLIT (CRITICAL):**
   - Identify the single most **impactful keyword** in the headline.
   - This keyword MUST be **Vibrant Metallic Gold**.
   - All other words MUST be **Stark White**.
   - *Example:* "BEAR MARKET" -> "BEAR" (Gold), "MARKET" (White).
   - *Example:* "TRUST THE CODE" -> "CODE" (Gold), "TRUST THE" (White).
4. **SHADOW:** You MUST specify a "**Heavy, soft, diffuse black drop shadow**" for maximum readability.
5. **FORBIDDEN:** Do **NOT** generate "text boxes", "rectangular background plates", "glitch effects", or "banners".

**CRITICAL: ENTITY & SAFETY HANDLING**
The Image Generation Model has strict safety filters for "Real People's Names". You must bypass this by describing them instead.

**RULE 1: FAMOUS PEOPLE -> VISUAL DESCRIPTIONS**
*   **NEVER** use the proper name of a celebrity or politician in the 'subject' or 'fullPrompt'.
*   **INSTEAD**, write a generic visual description.
*   *Example:* "Satoshi" -> "A mysterious hooded faceless figure".

**RULE 2: NATIONS -> SYMBOLS & FLAGS**
*   If a country/region is mentioned (USA, China, Europe, etc.), generate specific symbolic imagery.
*   **Flags:** "A massive, tattered cloth flag of the EU/USA rendered in high-contrast gold and black".
*   **Animals:** "A Cybernetic Eagle (USA)", "A Golden Panda (China)", "A Bull (Wall St)".
*   **Landmarks:** "The Capitol Building", "The Eiffel Tower", "The Great Wall".

**CONCEPT STRATEGY (3 DISTINCT VARIANTS):**
*   **Variant 1 (The "Safe" Character):** If a person is in the headline, render them as a **Golden Statue, Marble Bust, or Dramatic Silhouette**. DESCRIBE them visually (do not name them). If no person, use a central Hero Object (Coin, Hardware Wallet).
*   **Variant 2 (The National/Symbolic):** If a country is mentioned, use the **Flag, Map, or National Animal** (Eagle, Bear, Dragon) rendered in Gold/Cyberpunk style. If no country, use a Metaphor (Golden Gavel, Breaking Chains, Hourglass).
*   **Variant 3 (The Grand Scale):** A massive environmental scene. A futuristic city, a vault door, a network grid, or a monumental structure.

**THE "GOLD STANDARD" PROMPT STRUCTURE (EXTERNAL TOOL READY):**
Construct the 'fullPrompt' as a seamless, high-density comma-separated description.
Format: "[Subject detailed description], [Action and motion details], [Environment and lighting], [Style, Camera, Render settings], Text: '[Exact Headline]' [Typography instruction with Gold Keyword]"

**OUTPUT FORMAT:**
Return a JSON Array of 3 objects adhering to the schema.
`

const carouselScriptInstruction = `
**ACT AS:** Senior Crypto Educator & Copywriter.
**GOAL:** Break down a crypto concept into 4 sequential, educational subheadings for an Instagram Carousel.
**CONSTRAINT:** The text will be rendered ON an image. IT MUST BE EXTREMELY SHORT.
**RULES:**
1. Generate exactly 4 short sentences.
2. MAX 6 WORDS per sentence.
3. No filler words.
4. Focus on value, truth, or insight.
5. Tone: Serious, Educational, "Alpha".
`

const carouselPromptsInstruction = `
**ACT AS:** Visual Consistency AI.
**GOAL:** Generate 4 new image prompts that match a Master Style but illustrate specific texts.

**INPUT DATA:**
1. Master Style (Environment, Style settings, original Subject).
2. Slide Texts (The text to appear on each image).

**GENERATION RULES:**
1. **KEEP CONSISTENT:** Use the EXACT "Environment", "StyleAndTech" and "Lighting" provided in the Master Style.
2. **EVOLVE SUBJECT:** Create a NEW Subject/Object for each slide that metaphorically represents the Slide Text. It must use the same materials (Gold/Silver) and aesthetic as the Master Style.
3. **TEXT:** The prompt must include: Text: 'SLIDE_TEXT' Bold Sans-Serif, Important words in Gold, rest in White.
4. **FORMAT:** Output a comma-separated string for each prompt.

**OUTPUT:**
Return a JSON Array of 4 strings (the full prompts).
`

const singleCarouselPromptInstruction = `
**ACT AS:** Visual Consistency AI.
**GOAL:** Generate 1 image prompt matching the Master Style for the provided text.
**RULES:**
1. Use EXACT Master Style settings.
2. Create a metaphorical Subject for the text.
3. Include: Text: '%s' Bold Sans-Serif, Gold keywords.
4. Output ONLY the raw prompt string.
`

const refineTemplate = `
ORIGINAL CONTENT:
%s

USER FEEDBACK: %s

TASK: Rewrite the content fully incorporating the user feedback.
CRITICAL:
1. Maintain the formatting rules for the platform (Plain Text vs Markdown).
2. Return ONLY the new content text. Do not add conversational filler like "Here is the refined text".
`

const trendingPrompt = `Find the top 10 trending news topics and keywords in Cryptocurrency, Bitcoin, and Blockchain happening right now.

RETURN FORMAT:
You MUST return a VALID JSON string (and nothing else) with this exact structure:
[
  { "category": "Category Name", "keywords": ["keyword1", "keyword2"] }
]

Do not include markdown backticks or explanations. Just the JSON.`

const viralHooksPrompt = `Generate 15 highly engaging, short "Hooks" or "Titles" for Crypto/Finance content.
They should be punchy, alpha-focused, and suitable for visual headlines.
Examples: "Silence is Golden", "Bear Market Builder", "Trust the Code", "Money is Energy".
Return ONLY a JSON array of strings.`

// masterStyle는 캐러셀 프롬프트 요청에 함께 보내는 고정 스타일입니다.
// typographyInstruction은 슬라이드마다 달라지므로 제외합니다.
type masterStyle struct {
	Environment  string `json:"environment"`
	StyleAndTech string `json:"styleAndTech"`
	Action       string `json:"action"`
	Subject      string `json:"subject"`
}

func newMasterStyle(b entity.Breakdown) masterStyle {
	return masterStyle{
		Environment:  b.Environment,
		StyleAndTech: b.StyleAndTech,
		Action:       b.Action,
		Subject:      b.Subject,
	}
}

func designPromptsRequest(headline string) string {
	return fmt.Sprintf("Generate 3 visual master prompts for the headline: %q", headline)
}

func carouselScriptRequest(headline string) string {
	return fmt.Sprintf("Generate 4 educational carousel slides for the concept: %q", headline)
}

func carouselPromptsRequest(b entity.Breakdown, slides []entity.SlideText) (string, error) {
	texts := make([]string, 0, len(slides))
	for _, s := range slides {
		texts = append(texts, s.Text)
	}
	body, err := json.Marshal(struct {
		MasterStyle masterStyle `json:"masterStyle"`
		Slides      []string    `json:"slides"`
	}{newMasterStyle(b), texts})
	if err != nil {
		return "", err
	}
	return "Generate 4 image prompts based on this style and these texts: " + string(body), nil
}

func singleCarouselPromptRequest(b entity.Breakdown, slideText string) (string, error) {
	body, err := json.Marshal(struct {
		MasterStyle masterStyle `json:"masterStyle"`
		SlideText   string      `json:"slideText"`
	}{newMasterStyle(b), slideText})
	if err != nil {
		return "", err
	}
	return "Generate 1 image prompt based on this style and text: " + string(body), nil
}

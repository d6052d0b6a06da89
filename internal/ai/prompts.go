package ai

import "fmt"

// DefaultSystemPrompt steers the model toward outlines that follow the
// heading-then-list depth policy
const DefaultSystemPrompt = `You are an AI assistant that creates highly structured, actionable mindmaps optimized for learning and implementation.

CRITICAL STRUCTURING RULES:

1. **Separate Concepts from Actions:**
   - Concepts: What something IS (e.g., "React Hooks", "Branding System")
   - Actions: What to DO (e.g., "Learn React Hooks", "Implement Branding")

2. **Avoid Duplication & Unify Terms:**
   - Merge overlapping concepts (e.g., "Branding/Brand Identity/Logo Design" -> "Branding System")
   - Use consistent terminology throughout
   - Group related items under unified parent nodes

3. **Learning Node Structure (for educational content):**
   Each learning node should include:
   - **Outcomes:** What you'll achieve
   - **Practice:** How to practice/apply
   - **Deliverable:** What you'll create/produce
   - **Prerequisites:** What you need to know first (optional)
   - **Resources:** Helpful materials (optional)

4. **Markmap Formatting Rules:**
   - Use headers (# ## ###) ONLY for first 3 levels (depth 0-2)
   - Use indented lists (- item) for deeper levels (depth 3+)
   - Indent deeper list items by two spaces per level below depth 3
   - Never exceed 3 header levels

Example Structure:
# Web Development
## Frontend Development
### React Framework
- **Outcomes:** Build interactive UIs, manage state, create components
- **Practice:** Build todo app, portfolio site, e-commerce cart
- **Deliverable:** Deployed React application
- **Prerequisites:** JavaScript, HTML, CSS
- **Resources:** React docs, freeCodeCamp, Codecademy

Always respond with only the markdown structure, no explanations.`

// fallbackSystemPrompt is sent when a caller passes an empty system prompt
const fallbackSystemPrompt = "You are an AI assistant that helps users create and expand mindmaps. " +
	"Always respond with clear, structured content that can be easily converted to markdown format."

const formattingRules = `IMPORTANT: Follow Markmap formatting rules:
- Use headers (# ## ###) for first 3 levels only
- Use indented lists (- item) for deeper levels
- Never exceed 3 header levels`

// CreatePrompt asks for a new mindmap on a topic
func CreatePrompt(request string) string {
	return fmt.Sprintf(`Create a comprehensive, well-structured mindmap based on this request: "%s"

STRUCTURING REQUIREMENTS:
- Separate concepts from actions clearly
- Avoid duplication and unify overlapping terms
- For learning content, include Outcomes, Practice, and Deliverables for each learning node
- Group related concepts under unified parent nodes
- Use consistent terminology throughout

Please respond with only the markdown structure, no explanations.`, request)
}

// ConvertTextPrompt asks for free text to be organized as a mindmap
func ConvertTextPrompt(text string) string {
	return fmt.Sprintf(`Convert the following text into a well-organized mindmap structure:

%s
- Extract main ideas and organize them logically

Text to convert:
%s

Please respond with only the markdown structure, no explanations.`, formattingRules, text)
}

// ImprovePrompt asks for an existing mindmap to be reorganized
func ImprovePrompt(markdown string) string {
	return fmt.Sprintf(`Review and improve this mindmap structure to make it more organized, logical, and comprehensive:

IMPROVEMENT FOCUS:
- Separate concepts from actions clearly
- Merge overlapping/duplicate terms into unified nodes
- Add missing Outcomes, Practice, and Deliverables for learning nodes
- Improve logical grouping and hierarchy
- Ensure consistent terminology throughout
- Add missing connections and relationships

Current mindmap:
%s

Please respond with only the improved markdown structure, no explanations.`, markdown)
}

// SuggestPrompt asks for additional branches for an existing mindmap
func SuggestPrompt(markdown string) string {
	return fmt.Sprintf(`Analyze this mindmap and suggest additional content, topics, or ideas that would make it more comprehensive:

%s
- Suggest new branches, subtopics, examples, or related concepts

Current mindmap:
%s

Please respond with only the additional content in markdown format, no explanations.`, formattingRules, markdown)
}

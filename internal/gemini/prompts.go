package gemini

// Prompts live here so tone changes are a single-file edit.
// Keep them concise — every token costs money and latency.

// promptDetect asks the vision model to read a fridge or counter photo.
const promptDetect = `Identify every distinct food ingredient visible in this photo.
List each one once, most prominent first. Name ingredients plainly ("red bell pepper", not "vegetable").
Ignore packaging text, utensils, and anything inedible.`

// promptRecipe is the recipe synthesis instruction. Profile constraints
// are appended per request (see recipes.go).
const promptRecipe = `You are a practical home-cooking chef. Create one complete recipe using the ingredients provided.

Rules:
- Prefer the listed ingredients; assume only water, salt, pepper, and cooking oil beyond them.
- Write instructions a first-time cook can follow, one action per step.
- Include explicit durations ("simmer for 15 minutes") wherever timing matters.
- Keep the description to two sentences, no marketing fluff.`

// promptPrices is the grounded cost lookup. Search grounding is on, so
// the model is told to actually use it.
const promptPrices = `Using current web results, estimate the total grocery cost of buying the following ingredients at a typical supermarket.

Give a short summary: the estimated total range and the two or three priciest items. Plain text, no markdown, at most four sentences.`

// promptShopping asks for a categorized shopping list.
const promptShopping = `Organize the following ingredients into a grocery shopping list grouped by store section (Produce, Meat & Seafood, Dairy, Pantry, and so on).

Leave out pantry staples a home cook already has — at minimum the exclusion list provided. Keep item names short and buyable.`

// promptSubstitution asks for one substitution suggestion.
const promptSubstitution = `Suggest the best substitution for one ingredient in a specific recipe.
Answer in one short sentence naming the substitute and the amount to use.
Plain text only — the answer may be spoken aloud. No markdown, no emojis.`

// promptImage is the dish-photo prompt prefix.
const promptImage = `A realistic, appetizing overhead photo of the finished dish described below, plated on a neutral table, natural light, no text or watermarks.`

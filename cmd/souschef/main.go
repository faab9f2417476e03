// SousChef — an AI cooking assistant.
//
// Usage:
//
//	souschef [-verbose] [-quiet]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"souschef/internal/chef"
	"souschef/internal/conversation"
	"souschef/internal/display"
	"souschef/internal/domain"
	"souschef/internal/engine"
	"souschef/internal/gemini"
	"souschef/internal/logger"
	"souschef/internal/speech"
	"souschef/internal/storage"
	"souschef/internal/timer"
)

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".souschef-logs/souschef.log", "file to write logs to (use \"stderr\" to log to console)")
	dataDir := flag.String("data-dir", ".souschef", "directory for profile, recipes, and meal plan")
	noSpeech := flag.Bool("no-speech", false, "disable text-to-speech output")
	diskCache := flag.Bool("disk-cache", true, "persist TTS audio cache to disk (reads from disk even when false)")
	cacheDir := flag.String("cache-dir", ".souschef-cache", "directory for persistent TTS audio cache")
	ttsVoice := flag.String("tts-voice", "Kore", "prebuilt voice for speech synthesis")
	whisperBin := flag.String("whisper-bin", "whisper-cli", "path to the whisper-cpp CLI binary")
	whisperModel := flag.String("whisper-model", "bin/ggml-small.bin", "path to the Whisper GGML model file")
	recordSecs := flag.Int("record-secs", 3, "seconds per voice recording chunk")
	flag.Parse()

	// Configure logger.
	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the REPL stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Redirect Go's default log package (used by third-party libs like
	// the whisper transcriber) to the same output so it doesn't spam
	// the terminal.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	// Set up context — cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "error: GEMINI_API_KEY is not set (put it in .env or the environment)")
		os.Exit(1)
	}

	gen, err := gemini.New(ctx, apiKey, log, gemini.WithVoice(*ttsVoice))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(*dataDir, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Wire dependencies. The UI's status bar and the timer loops read the
	// active session through the app, so the app comes first.
	app := &cliApp{
		store:  store,
		gen:    gen,
		parser: conversation.NewVoiceParser(log),
		log:    log,
	}

	ui := display.NewUI(app.sessionSnapshot)
	app.ui = ui

	app.chef = chef.New(gen, log, chef.WithImageListener(func(img []byte) {
		ui.PrintHint(fmt.Sprintf("Dish image ready (%d KB) — type 'image' to save it.", len(img)/1024))
	}))

	textNotifier := conversation.NewCLINotifier(log, ui.Printf)

	// Build the active notifier. If TTS is available, wrap the text
	// notifier with a SpeakingNotifier that also speaks through the Mouth.
	var activeNotifier domain.Notifier = textNotifier
	var mouth *speech.Mouth

	if !*noSpeech {
		player, err := speech.NewPlayer(log)
		if err != nil {
			log.Error("audio player init failed, speech disabled: %v", err)
		} else {
			mouth = speech.NewMouth(gen, gen.Voice(), player, log,
				speech.WithCacheDir(*cacheDir),
				speech.WithDiskWrite(*diskCache),
			)
			mouth.Start(ctx)
			mouth.Prefetch(ctx, speech.ThinkingFillers()...)
			activeNotifier = speech.NewSpeakingNotifier(textNotifier, mouth, log)
			log.Info("TTS enabled (voice=%s)", gen.Voice())
		}
	}
	app.mouth = mouth

	// The speaker port: a real mouth when TTS is up, a null object
	// otherwise, so interrupt paths need no nil checks.
	app.speaker = domain.Speaker(speech.NewNoOpSpeaker(log))
	if mouth != nil {
		app.speaker = mouth
	}

	// Voice input. The ear is always constructed; Available() gates the
	// in-session voice toggle.
	app.ear = speech.NewEar(*whisperBin, *whisperModel, mouth, log,
		speech.WithRecordDuration(time.Duration(*recordSecs)*time.Second),
	)
	if app.ear.Available() {
		log.Info("voice input available (bin=%s, model=%s)", *whisperBin, *whisperModel)
	}

	// Background loops: the runner ticks the session countdown, the
	// watcher nags about expired timers and idle steps.
	runner := timer.New(app.currentSession, activeNotifier, log)
	runner.Start(ctx)
	defer runner.Stop()

	watcher := timer.NewWatcher(app.currentSession, activeNotifier, log)
	go watcher.Run(ctx)

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal — blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
	app.stopEar()
}

type cliApp struct {
	store    *storage.FileStore
	chef     *chef.Chef
	gen      domain.Generator
	parser   *conversation.VoiceParser
	speaker  domain.Speaker
	mouth    *speech.Mouth // nil when TTS is disabled
	ear      *speech.Ear
	ui       *display.UI
	log      *logger.Logger

	mu      sync.Mutex
	session *engine.Session
	pending []string // ingredients waiting to become a recipe
	earOn   bool
}

// currentSession is the SessionProvider for the timer loops.
func (a *cliApp) currentSession() *engine.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// sessionSnapshot feeds the UI status bar.
func (a *cliApp) sessionSnapshot() *domain.SessionSnapshot {
	s := a.currentSession()
	if s == nil {
		return nil
	}
	snap := s.Snapshot()
	return &snap
}

func (a *cliApp) setSession(s *engine.Session) {
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()
}

// say prints a message to stdout and queues it for speech at the given
// priority. Use for conversational lines the user should hear. For raw
// formatting (lists, tables) use the ui helpers directly — those
// shouldn't be spoken.
func (a *cliApp) say(text string, priority speech.Priority) {
	a.ui.PrintChat(text)
	if a.mouth != nil {
		a.mouth.Say(text, priority)
	}
}

func (a *cliApp) sayUrgent(text string) {
	a.ui.PrintUrgent(text)
	if a.mouth != nil {
		a.mouth.Say(text, speech.PriorityHigh)
	}
}

func (a *cliApp) run(ctx context.Context) {
	a.say(speech.LineWelcome(), speech.PriorityNormal)
	a.ui.Println("")
	a.ui.PrintChat("Scan a photo of your ingredients ('scan fridge.jpg') or add them by hand ('add chicken').")

	uiCh := a.ui.InputChan()
	voiceCh := a.ear.C()

	for {
		select {
		case <-ctx.Done():
			return
		case input, ok := <-uiCh:
			if !ok {
				return
			}
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			if !a.handleCommand(ctx, input) {
				return
			}
		case utterance := <-voiceCh:
			a.handleUtterance(ctx, utterance)
		}
	}
}

// handleUtterance routes a transcribed voice line. Anything that doesn't
// match a session command is dropped without comment — recognition noise
// shouldn't produce a stream of "didn't catch that".
func (a *cliApp) handleUtterance(ctx context.Context, utterance string) {
	session := a.currentSession()
	if session == nil || !session.VoiceEnabled() {
		a.log.Debug("voice: dropping %q (no voice session)", utterance)
		return
	}

	snap := session.Snapshot()
	intent := a.parser.Parse(utterance, snap.Instruction)
	if intent.Type == domain.IntentNone {
		return
	}
	// A spoken timer request with no duration to infer from the step just
	// fizzles. Only the typed command explains what went wrong.
	if intent.Type == domain.IntentStartTimer && intent.Seconds <= 0 {
		a.log.Debug("voice: timer request but step has no duration, dropping")
		return
	}

	a.ui.PrintVoice(utterance)
	a.speaker.Interrupt()

	switch intent.Type {
	case domain.IntentNextStep:
		a.nextStep(ctx)
	case domain.IntentPreviousStep:
		a.previousStep(ctx)
	case domain.IntentStartTimer:
		a.startTimer(ctx, intent.Seconds)
	}
}

// handleCommand dispatches one typed line. Returns false to exit.
func (a *cliApp) handleCommand(ctx context.Context, input string) bool {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	switch cmd {
	case "help":
		a.showHelp()
	case "scan":
		a.scan(ctx, rest)
	case "add":
		a.addIngredient(rest)
	case "ingredients":
		a.showPending()
	case "clear":
		a.clearPending()
	case "generate", "make":
		a.generate(ctx)
	case "recipe":
		a.showActiveRecipe()
	case "prices":
		a.showPrices()
	case "shop", "shopping":
		a.shoppingList(ctx)
	case "sub", "substitute":
		a.substitute(ctx, rest)
	case "image":
		a.saveImage(rest)
	case "save":
		a.saveRecipe(rest)
	case "list", "recipes":
		a.showLibrary(args)
	case "open":
		a.openRecipe(args)
	case "delete":
		a.deleteRecipe(args)
	case "rate":
		a.rateRecipe(args)
	case "plan":
		a.plan(ctx, args)
	case "unplan":
		a.unplan(args)
	case "recent":
		a.showRecent()
	case "profile":
		a.profile(args)
	case "cook":
		a.startCooking(ctx)
	case "step":
		a.showCurrentStep(ctx)
	case "next", "done":
		a.nextStep(ctx)
	case "back", "previous":
		a.previousStep(ctx)
	case "timer":
		a.startTimerCommand(ctx, rest)
	case "check":
		a.toggleChecklist(rest)
	case "checklist":
		a.showChecklist()
	case "voice":
		a.toggleVoice(ctx)
	case "stop", "finish":
		a.endCooking()
	case "quit", "exit":
		a.quit()
		return false
	default:
		a.ui.PrintHint(fmt.Sprintf("Unknown command %q — type 'help'.", cmd))
	}
	return true
}

// ── Ingredients & generation ─────────────────────────────────────

func (a *cliApp) scan(ctx context.Context, path string) {
	if path == "" {
		a.ui.PrintHint("Usage: scan <photo path>")
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		a.sayUrgent(fmt.Sprintf("Couldn't read %s: %v", path, err))
		return
	}

	a.thinking(ctx)
	detected, err := a.gen.DetectIngredients(ctx, data, mimeForPath(path))
	if err != nil {
		a.sayUrgent(fmt.Sprintf("Ingredient detection failed: %v", err))
		return
	}
	if len(detected) == 0 {
		a.say("I couldn't spot any ingredients in that photo.", speech.PriorityNormal)
		return
	}

	a.mu.Lock()
	a.pending = detected
	a.mu.Unlock()

	a.ui.PrintStep(fmt.Sprintf("Found %d ingredients:", len(detected)))
	for _, ing := range detected {
		a.ui.PrintInstruction("  - " + ing)
	}
	a.ui.PrintChat("Add more with 'add', or type 'generate' to get a recipe.")
}

func (a *cliApp) addIngredient(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		a.ui.PrintHint("Usage: add <ingredient>")
		return
	}

	a.mu.Lock()
	a.pending = append(a.pending, name)
	n := len(a.pending)
	a.mu.Unlock()

	a.ui.PrintHint(fmt.Sprintf("Added %q (%d total).", name, n))
}

func (a *cliApp) showPending() {
	a.mu.Lock()
	pending := append([]string(nil), a.pending...)
	a.mu.Unlock()

	if len(pending) == 0 {
		a.ui.PrintHint("No ingredients yet — 'scan <photo>' or 'add <ingredient>'.")
		return
	}
	a.ui.PrintStep("Ingredients on hand:")
	for _, ing := range pending {
		a.ui.PrintInstruction("  - " + ing)
	}
}

func (a *cliApp) clearPending() {
	a.mu.Lock()
	a.pending = nil
	a.mu.Unlock()
	a.ui.PrintHint("Ingredient list cleared.")
}

func (a *cliApp) generate(ctx context.Context) {
	a.mu.Lock()
	pending := append([]string(nil), a.pending...)
	a.mu.Unlock()

	profile := a.store.Profile()

	a.thinking(ctx)
	recipe, prices, err := a.chef.Generate(ctx, pending, &profile)
	if err != nil {
		if errors.Is(err, domain.ErrNoIngredients) {
			a.say("I need at least one ingredient — 'scan' a photo or 'add' something first.", speech.PriorityNormal)
			return
		}
		a.sayUrgent(fmt.Sprintf("Generation failed: %v", err))
		return
	}

	// A new recipe obsoletes any session cooking the old one.
	a.dropSession()

	a.printRecipe(recipe)
	a.printPrices(prices)
	a.say(speech.LineRecipeReady(recipe.Title, recipe.IngredientNames()), speech.PriorityNormal)
	if a.mouth != nil {
		a.mouth.Prefetch(ctx, speech.LineCookingStart(recipe.Title))
	}
}

func (a *cliApp) showActiveRecipe() {
	recipe, _ := a.chef.Active()
	if recipe == nil {
		a.ui.PrintHint("No active recipe — 'generate' one or 'open' a saved one.")
		return
	}
	a.printRecipe(recipe)
}

func (a *cliApp) printRecipe(r *domain.Recipe) {
	a.ui.PrintStep(fmt.Sprintf("=== %s ===", r.Title))
	a.ui.PrintInstruction(r.Description)
	meta := fmt.Sprintf("Prep: %s · Cook: %s · Serves %d", r.PrepTime, r.CookTime, r.Servings)
	if r.Cuisine != "" {
		meta += " · " + r.Cuisine
	}
	if conversation.IsQuick(r.PrepTime, r.CookTime) {
		meta += " · quick"
	}
	a.ui.PrintHint(meta)

	a.ui.Println("")
	a.ui.PrintStep("Ingredients:")
	for _, ing := range r.Ingredients {
		line := "  - " + ing.Name
		if ing.Quantity != "" {
			line = "  - " + ing.Quantity + " " + ing.Name
		}
		if ing.Details != "" {
			line += " (" + ing.Details + ")"
		}
		a.ui.PrintInstruction(line)
	}

	a.ui.Println("")
	a.ui.PrintStep(fmt.Sprintf("Steps (%d):", len(r.Instructions)))
	for i, step := range r.Instructions {
		a.ui.PrintInstruction(fmt.Sprintf("  %d. %s", i+1, step))
	}

	if r.Nutrition.Calories > 0 {
		a.ui.Println("")
		a.ui.PrintHint(fmt.Sprintf("Per serving: %d kcal · %s protein · %s carbs · %s fat",
			r.Nutrition.Calories, r.Nutrition.Protein, r.Nutrition.Carbs, r.Nutrition.Fat))
	}
	if r.SourceURL != "" {
		a.ui.PrintHint("Source: " + r.SourceURL)
	}
}

func (a *cliApp) showPrices() {
	_, prices := a.chef.Active()
	if prices == nil {
		a.ui.PrintHint("No price summary — prices arrive with 'generate'.")
		return
	}
	a.printPrices(prices)
}

func (a *cliApp) printPrices(p *domain.PriceSearchResult) {
	if p == nil {
		return
	}
	a.ui.Println("")
	a.ui.PrintStep("Estimated cost:")
	a.ui.PrintInstruction(p.Summary)
	for i, c := range p.Citations {
		title := c.Title
		if title == "" {
			title = c.URI
		}
		a.ui.PrintHint(fmt.Sprintf("  [%d] %s — %s", i+1, title, c.URI))
	}
}

func (a *cliApp) shoppingList(ctx context.Context) {
	a.thinking(ctx)
	profile := a.store.Profile()
	list, err := a.chef.ShoppingList(ctx, &profile)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveRecipe) {
			a.ui.PrintHint("No active recipe to shop for.")
			return
		}
		a.sayUrgent(fmt.Sprintf("Shopping list failed: %v", err))
		return
	}

	if len(list) == 0 {
		a.say("You already have everything — nothing to buy.", speech.PriorityNormal)
		return
	}

	a.ui.PrintStep("Shopping list:")
	for _, cat := range list {
		a.ui.PrintInstruction(cat.Name + ":")
		for _, item := range cat.Items {
			a.ui.PrintInstruction("  [ ] " + item.Name)
		}
	}
}

func (a *cliApp) substitute(ctx context.Context, ingredient string) {
	if ingredient == "" {
		a.ui.PrintHint("Usage: sub <ingredient>")
		return
	}

	a.thinking(ctx)
	answer, err := a.chef.Substitute(ctx, ingredient)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoActiveRecipe):
			a.ui.PrintHint("No active recipe — substitutions are per recipe.")
		case errors.Is(err, domain.ErrSubstitutionBusy):
			a.ui.PrintHint("Still working on the last substitution — one at a time.")
		default:
			a.sayUrgent(fmt.Sprintf("Substitution failed: %v", err))
		}
		return
	}

	a.say(answer, speech.PriorityNormal)
}

func (a *cliApp) saveImage(path string) {
	img := a.chef.DishImage()
	if len(img) == 0 {
		a.ui.PrintHint("No dish image yet — it renders in the background after 'generate'.")
		return
	}
	if path == "" {
		path = "dish.png"
	}
	if err := os.WriteFile(path, img, 0o644); err != nil {
		a.sayUrgent(fmt.Sprintf("Couldn't write %s: %v", path, err))
		return
	}
	a.ui.PrintHint(fmt.Sprintf("Saved dish image to %s (%d KB).", path, len(img)/1024))
}

// ── Library / meal plan ──────────────────────────────────────────

func (a *cliApp) saveRecipe(category string) {
	recipe, _ := a.chef.Active()
	if recipe == nil {
		a.ui.PrintHint("No active recipe to save.")
		return
	}

	entry, err := a.store.SaveRecipe(domain.SavedRecipe{
		Recipe:   *recipe.Clone(),
		Category: strings.TrimSpace(category),
	})
	if err != nil {
		a.sayUrgent(fmt.Sprintf("Save failed: %v", err))
		return
	}

	// Persist the dish image alongside when it has arrived.
	if img := a.chef.DishImage(); len(img) > 0 {
		imgPath := filepath.Join("images", entry.ID+".png")
		os.MkdirAll("images", 0o755)
		if err := os.WriteFile(imgPath, img, 0o644); err == nil {
			if err := a.store.SetImagePath(entry.ID, imgPath); err != nil {
				a.log.Warn("recording image path: %v", err)
			}
		}
	}

	a.say(fmt.Sprintf("Saved %s to your library.", entry.Recipe.Title), speech.PriorityNormal)
}

func (a *cliApp) showLibrary(args []string) {
	quickOnly := len(args) > 0 && strings.EqualFold(args[0], "quick")

	recipes := a.store.SavedRecipes()
	if len(recipes) == 0 {
		a.ui.PrintHint("Your library is empty — 'save' a recipe after generating one.")
		return
	}

	a.ui.PrintStep("Saved recipes:")
	shown := 0
	for i, r := range recipes {
		if quickOnly && !conversation.IsQuick(r.Recipe.PrepTime, r.Recipe.CookTime) {
			continue
		}
		shown++
		line := fmt.Sprintf("[%d] %s", i+1, r.Recipe.Title)
		if r.Rating > 0 {
			line += " " + strings.Repeat("★", r.Rating)
		}
		if r.Category != "" {
			line += " · " + r.Category
		}
		a.ui.PrintInstruction(line)
	}
	if quickOnly && shown == 0 {
		a.ui.PrintHint("No quick recipes (30 minutes or less) in the library.")
	}
}

// resolveSaved maps a 1-based library index argument to a SavedRecipe.
func (a *cliApp) resolveSaved(args []string) (domain.SavedRecipe, bool) {
	if len(args) == 0 {
		a.ui.PrintHint("Give me a recipe number from 'list'.")
		return domain.SavedRecipe{}, false
	}
	idx, err := strconv.Atoi(args[0])
	recipes := a.store.SavedRecipes()
	if err != nil || idx < 1 || idx > len(recipes) {
		a.ui.PrintHint(fmt.Sprintf("%q is not a recipe number — see 'list'.", args[0]))
		return domain.SavedRecipe{}, false
	}
	return recipes[idx-1], true
}

func (a *cliApp) openRecipe(args []string) {
	entry, ok := a.resolveSaved(args)
	if !ok {
		return
	}

	a.chef.SetActive(entry.Recipe.Clone())
	a.dropSession()
	if err := a.store.MarkViewed(entry.ID); err != nil {
		a.log.Warn("marking viewed: %v", err)
	}

	a.printRecipe(&entry.Recipe)
	a.ui.PrintChat("Type 'cook' to start a guided session.")
}

func (a *cliApp) deleteRecipe(args []string) {
	entry, ok := a.resolveSaved(args)
	if !ok {
		return
	}
	if err := a.store.DeleteRecipe(entry.ID); err != nil {
		a.sayUrgent(fmt.Sprintf("Delete failed: %v", err))
		return
	}
	a.ui.PrintHint(fmt.Sprintf("Deleted %s (and its meal-plan slots).", entry.Recipe.Title))
}

func (a *cliApp) rateRecipe(args []string) {
	if len(args) < 2 {
		a.ui.PrintHint("Usage: rate <number> <1-5>")
		return
	}
	entry, ok := a.resolveSaved(args[:1])
	if !ok {
		return
	}
	stars, err := strconv.Atoi(args[1])
	if err != nil {
		a.ui.PrintHint("Usage: rate <number> <1-5>")
		return
	}
	if err := a.store.SetRating(entry.ID, stars); err != nil {
		a.sayUrgent(fmt.Sprintf("Rating failed: %v", err))
		return
	}
	a.ui.PrintHint(fmt.Sprintf("%s: %s", entry.Recipe.Title, strings.Repeat("★", stars)))
}

func (a *cliApp) plan(ctx context.Context, args []string) {
	if len(args) == 0 {
		a.showPlan()
		return
	}
	if len(args) < 2 {
		a.ui.PrintHint("Usage: plan <day> <recipe number>, or just 'plan' to view.")
		return
	}

	day, ok := canonicalDay(args[0])
	if !ok {
		a.ui.PrintHint(fmt.Sprintf("%q is not a weekday.", args[0]))
		return
	}
	entry, ok := a.resolveSaved(args[1:])
	if !ok {
		return
	}
	if err := a.store.AddToMealPlan(day, entry); err != nil {
		a.sayUrgent(fmt.Sprintf("Planning failed: %v", err))
		return
	}
	a.ui.PrintHint(fmt.Sprintf("%s on %s.", entry.Recipe.Title, day))
}

func (a *cliApp) unplan(args []string) {
	if len(args) < 2 {
		a.ui.PrintHint("Usage: unplan <day> <recipe number>")
		return
	}
	day, ok := canonicalDay(args[0])
	if !ok {
		a.ui.PrintHint(fmt.Sprintf("%q is not a weekday.", args[0]))
		return
	}
	entry, ok := a.resolveSaved(args[1:])
	if !ok {
		return
	}
	if err := a.store.RemoveFromMealPlan(day, entry.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.ui.PrintHint(fmt.Sprintf("%s isn't planned on %s.", entry.Recipe.Title, day))
			return
		}
		a.sayUrgent(fmt.Sprintf("Unplanning failed: %v", err))
		return
	}
	a.ui.PrintHint(fmt.Sprintf("Removed %s from %s.", entry.Recipe.Title, day))
}

func (a *cliApp) showPlan() {
	plan := a.store.MealPlan()
	a.ui.PrintStep("Meal plan:")
	for _, day := range domain.Weekdays {
		entries := plan[day]
		if len(entries) == 0 {
			a.ui.PrintHint(fmt.Sprintf("  %-9s —", day))
			continue
		}
		var titles []string
		for _, e := range entries {
			titles = append(titles, e.Recipe.Title)
		}
		a.ui.PrintInstruction(fmt.Sprintf("  %-9s %s", day, strings.Join(titles, ", ")))
	}
}

func (a *cliApp) showRecent() {
	ids := a.store.RecentIDs()
	if len(ids) == 0 {
		a.ui.PrintHint("Nothing viewed recently.")
		return
	}
	a.ui.PrintStep("Recently viewed:")
	for _, id := range ids {
		r, err := a.store.SavedRecipe(id)
		if err != nil {
			continue // deleted since it was viewed
		}
		a.ui.PrintInstruction("  - " + r.Recipe.Title)
	}
}

// ── Profile ──────────────────────────────────────────────────────

func (a *cliApp) profile(args []string) {
	p := a.store.Profile()

	if len(args) == 0 {
		a.ui.PrintStep("Profile:")
		a.ui.PrintInstruction("  diet:        " + joinOrDash(p.DietaryRestrictions))
		a.ui.PrintInstruction("  allergies:   " + joinOrDash(p.Allergies))
		a.ui.PrintInstruction("  cuisines:    " + joinOrDash(p.CuisinePreferences))
		a.ui.PrintInstruction("  always have: " + joinOrDash(p.CustomIngredients))
		a.ui.PrintInstruction("  pantry:      " + joinOrDash(p.PantryStaples))
		a.ui.PrintHint("Set with: profile <diet|allergies|cuisines|ingredients|pantry> a, b, c")
		return
	}

	values := splitCSV(strings.Join(args[1:], " "))
	switch strings.ToLower(args[0]) {
	case "diet":
		p.DietaryRestrictions = values
	case "allergies":
		p.Allergies = values
	case "cuisines":
		p.CuisinePreferences = values
	case "ingredients":
		p.CustomIngredients = values
	case "pantry":
		p.PantryStaples = values
	default:
		a.ui.PrintHint(fmt.Sprintf("Unknown profile field %q.", args[0]))
		return
	}

	if err := a.store.SaveProfile(p); err != nil {
		a.sayUrgent(fmt.Sprintf("Saving profile failed: %v", err))
		return
	}
	a.ui.PrintHint("Profile updated.")
}

// ── Cooking session ──────────────────────────────────────────────

func (a *cliApp) startCooking(ctx context.Context) {
	recipe, _ := a.chef.Active()
	if recipe == nil {
		a.ui.PrintHint("No active recipe — 'generate' one or 'open' a saved one first.")
		return
	}

	session := engine.NewSession(recipe, a.log)
	a.setSession(session)

	a.say(speech.LineCookingStart(recipe.Title), speech.PriorityNormal)
	a.showCurrentStep(ctx)
}

func (a *cliApp) showCurrentStep(ctx context.Context) {
	session := a.currentSession()
	if session == nil {
		a.say(speech.LineNoSession(), speech.PriorityLow)
		return
	}

	snap := session.Snapshot()
	a.ui.PrintStep(fmt.Sprintf("Step %d/%d", snap.StepIndex+1, snap.StepCount))
	a.ui.PrintInstruction(snap.Instruction)

	if secs := conversation.DetectDurationSeconds(snap.Instruction); secs > 0 && snap.Timer == nil {
		a.ui.PrintHint(fmt.Sprintf("This step mentions %s — type 'timer' to start a countdown.",
			speech.FormatDurationSpeech(time.Duration(secs)*time.Second)))
	}

	if a.mouth != nil {
		a.mouth.Say(speech.LineStep(snap.StepIndex+1, snap.StepCount, snap.Instruction), speech.PriorityNormal)
		a.prefetchStep(ctx, session, snap.StepIndex+1)
	}
}

// prefetchStep pre-warms the TTS cache for the step at the given 0-based
// index. Non-blocking; no-op when out of range.
func (a *cliApp) prefetchStep(ctx context.Context, session *engine.Session, stepIdx int) {
	if a.mouth == nil {
		return
	}
	recipe := session.Recipe()
	if stepIdx < 0 || stepIdx >= len(recipe.Instructions) {
		return
	}
	a.mouth.Prefetch(ctx, speech.LineStep(stepIdx+1, len(recipe.Instructions), recipe.Instructions[stepIdx]))
}

func (a *cliApp) nextStep(ctx context.Context) {
	session := a.currentSession()
	if session == nil {
		a.say(speech.LineNoSession(), speech.PriorityLow)
		return
	}

	before := session.Snapshot().StepIndex
	snap := session.Next()
	if snap.StepIndex == before {
		a.say(speech.LineLastStep(), speech.PriorityNormal)
		return
	}
	a.showCurrentStep(ctx)
}

func (a *cliApp) previousStep(ctx context.Context) {
	session := a.currentSession()
	if session == nil {
		a.say(speech.LineNoSession(), speech.PriorityLow)
		return
	}

	before := session.Snapshot().StepIndex
	snap := session.Previous()
	if snap.StepIndex == before {
		a.say(speech.LineFirstStep(), speech.PriorityLow)
		return
	}
	a.showCurrentStep(ctx)
}

// startTimerCommand handles the typed 'timer' command. An explicit
// duration argument wins; otherwise the current step text is scanned.
func (a *cliApp) startTimerCommand(ctx context.Context, arg string) {
	session := a.currentSession()
	if session == nil {
		a.say(speech.LineNoSession(), speech.PriorityLow)
		return
	}

	seconds := 0
	if arg != "" {
		seconds = conversation.DetectDurationSeconds(arg)
		if seconds == 0 {
			a.ui.PrintHint(fmt.Sprintf("Couldn't read a duration from %q (try 'timer 5 minutes').", arg))
			return
		}
	} else {
		seconds = conversation.DetectDurationSeconds(session.Snapshot().Instruction)
	}

	a.startTimer(ctx, seconds)
}

func (a *cliApp) startTimer(ctx context.Context, seconds int) {
	session := a.currentSession()
	if session == nil {
		a.say(speech.LineNoSession(), speech.PriorityLow)
		return
	}
	if seconds <= 0 {
		a.say(speech.LineNoTimerInStep(), speech.PriorityNormal)
		return
	}

	if err := session.StartTimer(seconds); err != nil {
		if errors.Is(err, domain.ErrTimerActive) {
			a.say(speech.LineTimerAlreadyRunning(), speech.PriorityNormal)
			return
		}
		a.sayUrgent(fmt.Sprintf("Timer error: %v", err))
		return
	}

	a.say(speech.LineTimerStarted(time.Duration(seconds)*time.Second), speech.PriorityNormal)
}

func (a *cliApp) toggleChecklist(arg string) {
	session := a.currentSession()
	if session == nil {
		a.say(speech.LineNoSession(), speech.PriorityLow)
		return
	}
	arg = strings.TrimSpace(arg)
	if arg == "" {
		a.ui.PrintHint("Usage: check <ingredient or number>")
		return
	}

	names := session.Recipe().IngredientNames()
	name := ""
	if idx, err := strconv.Atoi(arg); err == nil && idx >= 1 && idx <= len(names) {
		name = names[idx-1]
	} else {
		for _, n := range names {
			if strings.EqualFold(n, arg) {
				name = n
				break
			}
		}
	}
	if name == "" {
		a.ui.PrintHint(fmt.Sprintf("%q isn't in this recipe's ingredients.", arg))
		return
	}

	checked := session.ToggleChecklistItem(name)
	if checked {
		a.ui.PrintHint(fmt.Sprintf("[x] %s", name))
	} else {
		a.ui.PrintHint(fmt.Sprintf("[ ] %s", name))
	}
}

func (a *cliApp) showChecklist() {
	session := a.currentSession()
	if session == nil {
		a.say(speech.LineNoSession(), speech.PriorityLow)
		return
	}

	checklist := session.Checklist()
	a.ui.PrintStep("Mise en place:")
	for i, name := range session.Recipe().IngredientNames() {
		box := "[ ]"
		if checklist[name] {
			box = "[x]"
		}
		a.ui.PrintInstruction(fmt.Sprintf("  %s %d. %s", box, i+1, name))
	}
}

func (a *cliApp) toggleVoice(ctx context.Context) {
	session := a.currentSession()
	if session == nil {
		a.say(speech.LineNoSession(), speech.PriorityLow)
		return
	}

	// No working recognizer: the toggle quietly does nothing.
	if !a.ear.Available() {
		a.log.Debug("voice toggle ignored: recognizer unavailable")
		return
	}

	if session.ToggleVoice() {
		a.startEar(ctx)
		a.say(speech.LineVoiceOn(), speech.PriorityNormal)
	} else {
		a.stopEar()
		a.say(speech.LineVoiceOff(), speech.PriorityNormal)
	}
}

func (a *cliApp) startEar(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.earOn {
		return
	}
	if err := a.ear.Start(ctx); err != nil {
		a.log.Error("starting voice input: %v", err)
		return
	}
	a.earOn = true
}

func (a *cliApp) stopEar() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.earOn {
		return
	}
	if err := a.ear.Stop(); err != nil {
		a.log.Error("stopping voice input: %v", err)
	}
	a.earOn = false
}

// dropSession discards the cooking session. The voice stream is scoped to
// the session, so it is released here too — every path that ends or
// replaces a session must come through this, or the microphone stays live.
func (a *cliApp) dropSession() {
	a.stopEar()
	a.setSession(nil)
}

func (a *cliApp) endCooking() {
	if a.currentSession() == nil {
		a.say(speech.LineNoSession(), speech.PriorityLow)
		return
	}
	a.dropSession()
	a.say("Session over. Enjoy your meal.", speech.PriorityNormal)
}

func (a *cliApp) quit() {
	a.dropSession()
	a.say(speech.LineBye(), speech.PriorityNormal)
	// Brief pause so TTS can start the goodbye line.
	time.Sleep(300 * time.Millisecond)
}

// thinking prints (and speaks) a short filler while a model call runs.
func (a *cliApp) thinking(ctx context.Context) {
	filler := speech.LineThinking()
	a.ui.PrintHint(filler)
	if a.mouth != nil {
		a.mouth.Say(filler, speech.PriorityCritical)
	}
}

func (a *cliApp) showHelp() {
	a.ui.PrintStep("Ingredients & recipes:")
	a.ui.PrintInstruction("  scan <photo>      Detect ingredients from a photo")
	a.ui.PrintInstruction("  add <ingredient>  Add an ingredient by hand")
	a.ui.PrintInstruction("  ingredients       Show what's on hand")
	a.ui.PrintInstruction("  clear             Forget the ingredient list")
	a.ui.PrintInstruction("  generate          Create a recipe + price estimate")
	a.ui.PrintInstruction("  recipe / prices   Show the active recipe / its cost")
	a.ui.PrintInstruction("  shop              Build a shopping list (skips pantry staples)")
	a.ui.PrintInstruction("  sub <ingredient>  Suggest a substitution")
	a.ui.PrintInstruction("  image [path]      Save the rendered dish photo")
	a.ui.Println("")
	a.ui.PrintStep("Library & planning:")
	a.ui.PrintInstruction("  save [category]   Save the active recipe")
	a.ui.PrintInstruction("  list [quick]      Show saved recipes")
	a.ui.PrintInstruction("  open / delete <n> Open or delete a saved recipe")
	a.ui.PrintInstruction("  rate <n> <1-5>    Star a saved recipe")
	a.ui.PrintInstruction("  plan [day] [n]    Show the meal plan / put a recipe on a day")
	a.ui.PrintInstruction("  unplan <day> <n>  Take a recipe off a day")
	a.ui.PrintInstruction("  recent            Recently viewed recipes")
	a.ui.PrintInstruction("  profile           Show or set dietary preferences")
	a.ui.Println("")
	a.ui.PrintStep("Cooking:")
	a.ui.PrintInstruction("  cook              Start a guided session")
	a.ui.PrintInstruction("  step / next / back")
	a.ui.PrintInstruction("  timer [duration]  Start the step's countdown")
	a.ui.PrintInstruction("  check <n>         Tick off an ingredient; 'checklist' to view")
	a.ui.PrintInstruction("  voice             Toggle hands-free commands (next / back / start timer)")
	a.ui.PrintInstruction("  stop              End the session")
	a.ui.PrintInstruction("  quit              Exit")
}

// ── Helpers ──────────────────────────────────────────────────────

func mimeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

func canonicalDay(s string) (string, bool) {
	for _, d := range domain.Weekdays {
		if strings.EqualFold(d, s) {
			return d, true
		}
	}
	return "", false
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "—"
	}
	return strings.Join(values, ", ")
}

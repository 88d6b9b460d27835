package config

import "time"

// Default values for configuration
const (
	// Log defaults
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	// Generator defaults
	DefaultGeneratorProvider = "huggingface"
	DefaultGeneratorEndpoint = "https://api-inference.huggingface.co/models/tiiuae/falcon-7b-instruct"
	DefaultGeneratorModel    = "gemini-2.0-flash"
	DefaultGeneratorTimeout  = 60 * time.Second

	DefaultBreakerMaxFailures  = 0
	DefaultBreakerResetTimeout = time.Minute
	DefaultRetryAttempts       = 1
	DefaultRetryBackoff        = 2 * time.Second

	// Token budgets
	DefaultTokensExercise  = 100
	DefaultTokensNutrition = 150
	DefaultTokensFreeText  = 150

	// Media defaults
	DefaultMediaOutputDir  = "output"
	DefaultMediaFileName   = "exercise.gif"
	DefaultMediaFrames     = 5
	DefaultMediaSize       = 512
	DefaultMediaFrameDelay = 500 * time.Millisecond
)

// Default prompts
const (
	DefaultPromptExercise = "You are a personal trainer. Generate one home workout exercise with a name " +
		"and a short instruction so the user understands how to do it, at most 200 characters."
	DefaultPromptDailyExercise = "You are a personal trainer. Generate today's exercise for a home workout " +
		"with a name and a short instruction so the user understands how to do it, at most 200 characters."
	DefaultPromptNutrition = "You are a nutrition expert. Answer the question briefly and practically: {question}"
	DefaultPromptNutritionDefault = "give nutrition advice"
	DefaultPromptFreeText         = "You are a personal trainer and nutrition expert. " +
		"Answer the user's message briefly and practically: {message}"
)

// Default bot messages
const (
	DefaultMessageStart = "Hi! I'm your fitness coach bot.\n\n" +
		"/exercise - get a home workout exercise\n" +
		"/nutrition <question> - ask a nutrition question\n\n" +
		"Or just write me a message about training or food."
	DefaultMessageFallback         = "Sorry, I could not generate a response. Please try again later."
	DefaultMessageExerciseFallback = "Squats: stand straight with feet shoulder-width apart. " +
		"Bend your knees, then rise back up."
)

// Default task names
const (
	TaskDailyExercise = "daily_exercise"
)

var defaults = map[string]any{
	"logger.level": DefaultLogLevel,
	"logger.json":  DefaultLogJSON,

	"telegram.token":   "",
	"telegram.chat_id": "",

	"generator.provider": DefaultGeneratorProvider,
	"generator.endpoint": DefaultGeneratorEndpoint,
	"generator.token":    "",
	"generator.model":    DefaultGeneratorModel,
	"generator.timeout":  DefaultGeneratorTimeout,

	"generator.strip_prompt_echo": false,
	"generator.clean_text":        false,

	"generator.breaker.max_failures":  DefaultBreakerMaxFailures,
	"generator.breaker.reset_timeout": DefaultBreakerResetTimeout,
	"generator.retry.attempts":        DefaultRetryAttempts,
	"generator.retry.backoff":         DefaultRetryBackoff,

	"prompts.exercise":          DefaultPromptExercise,
	"prompts.daily_exercise":    DefaultPromptDailyExercise,
	"prompts.nutrition":         DefaultPromptNutrition,
	"prompts.nutrition_default": DefaultPromptNutritionDefault,
	"prompts.free_text":         DefaultPromptFreeText,

	"tokens.exercise":  DefaultTokensExercise,
	"tokens.nutrition": DefaultTokensNutrition,
	"tokens.free_text": DefaultTokensFreeText,

	"messages.start":             DefaultMessageStart,
	"messages.fallback":          DefaultMessageFallback,
	"messages.exercise_fallback": DefaultMessageExerciseFallback,

	"media.enabled":     false,
	"media.output_dir":  DefaultMediaOutputDir,
	"media.file_name":   DefaultMediaFileName,
	"media.frames":      DefaultMediaFrames,
	"media.size":        DefaultMediaSize,
	"media.frame_delay": DefaultMediaFrameDelay,

	"scheduled.attach_animation": false,

	"mode.automation": "",
}

// internal/delivery/telegram/app/bot/constants/constants.go
package constants

import "crypto-signal-bot/internal/delivery/telegram"

// ButtonTexts содержит тексты для кнопок
var ButtonTexts = struct {
	BestLong    string
	BestShort   string
	Instruction string
}{
	BestLong:    "📈 Лучшее в лонг",
	BestShort:   "📉 Лучшее в шорт",
	Instruction: "📋 Инструкция",
}

// Команды бота (без /)
const (
	CommandStart       = "start"
	CommandInstruction = "instruction"
)

// Типы запросов для метрик и журнала
const (
	KindStart       = "start"
	KindInstruction = "instruction"
	KindScanLong    = "scan_long"
	KindScanShort   = "scan_short"
	KindTicker      = "ticker"
	KindPrompt      = "prompt"
)

// StatusTexts начальные тексты сообщения статуса
var StatusTexts = struct {
	Analysis string
	Scan     string
}{
	Analysis: "🔄 Запуск анализа...",
	Scan:     "🔄 Запуск поиска...",
}

// Messages тексты ответов
var Messages = struct {
	EnterTicker   string
	RateLimited   string
	InternalError string
}{
	EnterTicker:   "❌ Пожалуйста, введите тикер монеты (например, BTC, ETH).",
	RateLimited:   "⏳ Слишком много запросов. Подождите минуту и попробуйте снова.",
	InternalError: "❌ Произошла ошибка. Попробуйте позже.",
}

// WelcomeMessage ответ на /start
const WelcomeMessage = "👋 *Добро пожаловать!*\n\n" +
	"Бот строит торговые планы для пар к USDT по дневному тренду и ближайшим уровням.\n\n" +
	"✍️ Отправьте тикер монеты, например *BTC* или *ETH*, чтобы получить анализ.\n" +
	"📈 *Лучшее в лонг* и 📉 *Лучшее в шорт* ищут до трех сигналов среди самых ликвидных пар.\n" +
	"📋 *Инструкция* расскажет, как читать сигнал."

// InstructionMessage ответ на /instruction
const InstructionMessage = "📋 *Инструкция*\n\n" +
	"1️⃣ *Направление* определяется по SMA50 и SMA200 дневного графика: SMA50 выше SMA200 - лонг, ниже - шорт.\n" +
	"2️⃣ *Уровни* поддержки и сопротивления берутся из последних 30 свечей 4h и 20 свечей 1h.\n" +
	"3️⃣ *Точка входа* - лимитный ордер рядом с уровнем: +0.5% от поддержки для лонга, -0.5% от сопротивления для шорта.\n" +
	"4️⃣ *Стоп-лосс* на 2% за уровнем, *тейк-профит* на противоположном уровне.\n" +
	"5️⃣ *Условия отмены* - пробой уровня на 1%: если цена ушла туда до входа, ордер снимается.\n" +
	"6️⃣ *Риск/Прибыль* ниже 1:2 помечается предупреждением. Поиск лучших пар такие сигналы пропускает.\n\n" +
	"⚠️ Сигналы не являются инвестиционной рекомендацией."

// MainKeyboard постоянная клавиатура внизу чата
func MainKeyboard() telegram.ReplyKeyboardMarkup {
	return telegram.ReplyKeyboardMarkup{
		Keyboard: [][]telegram.ReplyKeyboardButton{
			{{Text: ButtonTexts.BestLong}, {Text: ButtonTexts.BestShort}},
			{{Text: ButtonTexts.Instruction}},
		},
		ResizeKeyboard: true,
	}
}

// BotCommands меню команд
func BotCommands() []telegram.BotCommand {
	return []telegram.BotCommand{
		{Command: CommandStart, Description: "Запуск бота"},
		{Command: CommandInstruction, Description: "Как читать сигнал"},
	}
}

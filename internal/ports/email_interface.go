package ports

// EmailSender : доставка писем. SendWithRetries никогда не возвращает
// ошибку наружу — исчерпанные попытки логируются и проглатываются,
// чтобы сбой почты не ломал вызвавшую операцию.
type EmailSender interface {
	Send(to, subject, messageText string) error
	SendWithRetries(to, subject, messageText string, retries int)
}

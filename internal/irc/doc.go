// Package irc реализует минимальный IRC-клиент для бота. Поддерживаемые адреса:
// irc://host:port (TCP), ircs://host:port (TLS), ws:// и wss:// (IRC поверх
// WebSocket, по строке на сообщение), а также просто host:port.
//
// Клиент регистрируется (PASS/NICK/USER, при 433 добавляет "_" к нику),
// после 001 заходит в каналы из конфига, отвечает на PING, копит ответы
// NAMES (353) до RPL_ENDOFNAMES (366) и отдаёт их одним вызовом OnNames.
//
// События (колбэки поля структуры):
//   - OnConnecting, OnConnected, OnMessage, OnJoin, OnInvite, OnNames,
//     OnDisconnected, OnError.
//
// Безопасность и устойчивость:
//   - Запись сериализована, между строками выдерживается SendInterval.
//   - Параметры очищаются от \r и \n, чтобы текст не стал второй командой.
//   - При простое шлём PING; если сервер молчит слишком долго — рвём
//     соединение, readLoop переподключается с экспоненциальным backoff.
//     OnDisconnected вызывается на каждый обрыв.
//
// Пример:
//
//	c := irc.New(irc.Config{Server: "ircs://irc.libera.chat", Nick: "cardsbot", Channels: []string{"#cards"}}, log)
//	c.OnMessage = func(m irc.PrivMsg) { fmt.Println(m.Nick, m.Text) }
//	if err := c.Connect(ctx); err != nil { log.Fatal(err) }
//	defer c.Disconnect()
//	_ = c.Say("#cards", "hello")
package irc

package texts

var german = []entry{
	{NoSession, "Es läuft kein Spiel. Starte eins mit %sstart."},
	{AlreadyRunning, "Es läuft bereits ein Spiel. Mit %sjoin kannst du mitspielen."},
	{GameStarted, "%s hat ein neues Spiel gestartet! Mit %sjoin bist du dabei. Die erste Runde beginnt ab %d Spielern."},
	{Joined, "%s spielt jetzt mit."},
	{AlreadyJoined, "%s: du spielst bereits mit."},
	{Left, "%s hat das Spiel verlassen."},
	{Removed, "%s wurde aus dem Spiel entfernt."},
	{NotPlaying, "%s: du spielst nicht mit."},
	{NoSuchPlayer, "%s spielt nicht mit."},

	{RoundStart, "Runde %d! %s ist Richter."},
	{Question, "Frage: %s [%d Karte(n)]"},
	{HandHeader, "Deine Karten in %s:"},
	{HandCard, "[%d] %s"},
	{YouPlayed, "Du hast in %s gespielt: %s"},
	{PlaysComplete, "Alle haben gespielt. %s, wähle den Gewinner mit %spick <Nummer>:"},
	{PlayLine, "%d: %s"},
	{RoundWinner, "%s gewinnt die Runde: %s (gesamt: %d)"},
	{RoundVoided, "Die Runde wird abgebrochen, gespielte Karten gehen an ihre Besitzer zurück."},

	{Paused, "Spiel pausiert. Weiter geht es mit %sresume."},
	{AutoPaused, "Zu wenige Spieler, das Spiel ist pausiert. Sobald %d Spieler da sind, %sresume eingeben."},
	{Resumed, "Das Spiel geht weiter."},
	{NotPaused, "Das Spiel ist nicht pausiert."},
	{IsPaused, "%s: das Spiel ist pausiert."},
	{NeedPlayers, "Zum Weiterspielen werden mindestens %d Spieler gebraucht."},

	{Stopped, "Das Spiel wurde beendet."},
	{RoundLimit, "Rundenlimit erreicht. Spielende!"},
	{PointLimit, "Punktelimit erreicht. Spielende!"},
	{NoPlayers, "Alle Spieler sind gegangen. Spielende."},
	{Underflow, "Zu wenige Spieler zum Weiterspielen. Spielende."},
	{DeckExhausted, "Das Deck ist leer. Spielende."},
	{FinalWinner, "Gewinner: %s mit %d Punkt(en)!"},
	{NoWinner, "Niemand hat gepunktet."},

	{PickUnavailable, "%spick ist im aktuellen Zustand nicht verfügbar."},
	{JudgeCannotPlay, "%s: du bist in dieser Runde Richter, warte auf die anderen."},
	{AlreadyPlayed, "%s: du hast in dieser Runde schon gespielt."},
	{BadCards, "%s: spiele genau %d verschiedene Karte(n) aus deiner Hand, z. B. %splay 1."},
	{NotJudge, "%s: nur der Richter wählt den Gewinner."},
	{BadChoice, "%s: wähle eine Zahl von 1 bis %d."},
	{NotNow, "%s: das geht gerade nicht."},

	{List, "Spieler: %s"},
	{Points, "Punkte: %s"},
	{StatusForming, "Warte auf Spieler: %d von %d. Mit %sjoin bist du dabei."},
	{StatusPlayable, "Runde %d, Richter %s. Es fehlen noch: %s"},
	{StatusPlayed, "Runde %d. Warte darauf, dass %s den Gewinner wählt."},
	{StatusPaused, "Das Spiel ist pausiert."},

	{Beer, "schiebt %[2]s ein großes, kaltes Glas %[1]s hinüber"},
	{TestPing, "Hörst du mich jetzt?"},
	{Invited, "Versuche %s beizutreten"},
	{Help, "Befehle: %[1]sstart [#] - Spiel mit # Runden starten; %[1]sjoin, %[1]sj - mitspielen; " +
		"%[1]squit, %[1]sq - Spiel verlassen; %[1]scards, %[1]sc - eigene Karten ansehen; " +
		"%[1]spick, %[1]sp [# ...] - Karte spielen oder Gewinner wählen; %[1]stest - Test-NOTICE vom Bot; " +
		"weitere Befehle: %[1]spause, %[1]sresume, %[1]splay, %[1]swinner, %[1]slist, %[1]spoints, %[1]sstatus, %[1]sbeer [nick]"},
	{PrivateHelp, "Private Befehle: help, cards (deine Karten in allen Spielen), test."},
	{NoCards, "Du spielst in keinem Spiel mit."},
	{LangCurrent, "Sprache: %s. Verfügbar: %s."},
	{LangSet, "Sprache auf %s gestellt."},
	{LangUnknown, "Unbekannte Sprache %s. Verfügbar: %s."},
	{ErrorWarning, "WARNUNG: Der Bot hat einen unbehandelten Fehler erzeugt. Es kann zu Macken kommen."},
}

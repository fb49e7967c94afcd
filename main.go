package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/nPaBwaYT/desref/cripta"
	"github.com/nPaBwaYT/desref/internal/api/gateway"
	"github.com/nPaBwaYT/desref/internal/config"
	"github.com/nPaBwaYT/desref/internal/helpers"
	"github.com/nPaBwaYT/desref/internal/keyderiv"
	"github.com/nPaBwaYT/desref/internal/textcodec"
)

/*
Шифрование файла DES в режиме CBC
go run main.go -e -m=cbc input.txt output.enc

Дешифрование файла DES
go run main.go -d -m=cbc -k="0123456789ABCDEF" -iv="FEDCBA9876543210" input.enc output.txt

Шифрование с ключом из пароля (PBKDF2)
go run main.go -e -passphrase="секрет" input.txt output.enc

Шифрование строки с выводом hex
go run main.go -e -k="133457799BBCDFF1" -m=ecb -text="HELLO, THIS IS A MESSAGE"

Дешифрование hex строки в текст в кодировке GBK
go run main.go -d -k="133457799BBCDFF1" -m=ecb -charset=gbk -text="..."

Вывод раундовых ключей
go run main.go -e -k="133457799BBCDFF1" -trace input.txt output.enc

HTTP сервер шифрования
go run main.go -serve

Режимы шифрования: ECB, CBC, PCBC, CFB, OFB, CTR
Режимы набивки: Zeros, PKCS7, ANSI X.923, ISO 10126
Параллельная обработка: для ECB и CTR режимов
Значения по умолчанию берутся из переменных окружения DES_*
*/

var errNoKey = errors.New("для дешифрования необходимо указать ключ (-k, -passphrase или -key-text)")

func main() {
	cfg := config.Load()
	logger := helpers.NewLogger("desref")

	// Определяем флаги
	encryptFlag := flag.Bool("e", false, "Режим шифрования")
	decryptFlag := flag.Bool("d", false, "Режим дешифрования")
	modeFlag := flag.String("m", cfg.Cipher.Mode, "Режим шифрования: ecb, cbc, pcbc, cfb, ofb, ctr")
	paddingFlag := flag.String("p", cfg.Cipher.Padding, "Режим набивки: zeros, pkcs7, ansi, iso")
	parallelFlag := flag.Bool("parallel", cfg.Cipher.Parallel, "Использовать параллельную обработку (только для ECB/CTR)")
	keyFlag := flag.String("k", "", "Ключ шифрования в hex (если не указан, будет сгенерирован)")
	passphraseFlag := flag.String("passphrase", "", "Пароль, из которого выводятся ключ и IV (PBKDF2)")
	keyTextFlag := flag.String("key-text", "", "Ключ в виде строки из 8 байт в кодировке -charset")
	ivFlag := flag.String("iv", "", "Вектор инициализации в hex (если не указан, будет сгенерирован)")
	charsetFlag := flag.String("charset", cfg.Cipher.Charset, "Кодировка текста: utf-8, gbk, ...")
	textFlag := flag.String("text", "", "Строка для шифрования (при -d: hex шифртекста)")
	traceFlag := flag.Bool("trace", false, "Вывести 16 раундовых ключей")
	serveFlag := flag.Bool("serve", false, "Запустить HTTP сервер шифрования")
	verboseFlag := flag.Bool("v", false, "Подробный лог")

	flag.Parse()
	logger.SetDebug(*verboseFlag)

	if *serveFlag {
		fmt.Println("Конфигурация:")
		fmt.Println(cfg)
		if err := gateway.New(cfg, logger).Start(); err != nil {
			log.Fatalf("Ошибка HTTP сервера: %v", err)
		}
		return
	}

	// Проверяем аргументы
	if (*encryptFlag && *decryptFlag) || (!*encryptFlag && !*decryptFlag) {
		fmt.Println("Использование:")
		fmt.Println("  Шифрование: go run main.go -e -m=cbc input.txt output.enc")
		fmt.Println("  Дешифрование: go run main.go -d -m=cbc -k=KEY -iv=IV input.enc output.txt")
		fmt.Println("  Сервер: go run main.go -serve")
		fmt.Println("\nФлаги:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	args := flag.Args()
	if *textFlag == "" && len(args) != 2 {
		fmt.Println("Ошибка: необходимо указать входной и выходной файлы или -text")
		os.Exit(1)
	}

	// Преобразуем режимы
	cipherMode, err := cripta.ParseCipherMode(*modeFlag)
	if err != nil {
		log.Fatalf("Ошибка режима шифрования: %v", err)
	}
	paddingMode, err := cripta.ParsePaddingMode(*paddingFlag)
	if err != nil {
		log.Fatalf("Ошибка режима набивки: %v", err)
	}

	// Получаем ключ
	src := keySource{
		hexKey:     *keyFlag,
		passphrase: *passphraseFlag,
		keyText:    *keyTextFlag,
		charset:    *charsetFlag,
	}
	key, keyGenerated, err := getOrGenerateKey(src, cfg.KDF, *encryptFlag)
	if err != nil {
		log.Fatalf("Ошибка работы с ключом: %v", err)
	}

	// Получаем IV
	var iv []byte
	ivGenerated := false
	if cipherMode != cripta.CipherModeECB {
		iv, ivGenerated, err = getOrGenerateIV(*ivFlag, *passphraseFlag, cfg.KDF, *encryptFlag)
		if err != nil {
			log.Fatalf("Ошибка работы с IV: %v", err)
		}
	}

	cipher, err := cripta.NewDESCipher(key)
	if err != nil {
		log.Fatalf("Ошибка создания шифра: %v", err)
	}
	logger.Debug("cipher ready", "key", cripta.KeyFingerprint(key), "mode", cipherMode, "padding", paddingMode)

	if *traceFlag {
		printRoundKeys(cipher)
	}

	// Создаем контекст шифрования
	ctx, err := cripta.NewCipherContext(cipher, cipherMode, paddingMode, iv, *parallelFlag)
	if err != nil {
		log.Fatalf("Ошибка создания контекста шифрования: %v", err)
	}

	if keyGenerated {
		fmt.Printf("Сгенерирован ключ: %x\n", key)
	}
	if ivGenerated {
		fmt.Printf("Сгенерирован IV: %x\n", iv)
	}

	if *textFlag != "" {
		out, err := processText(ctx, *encryptFlag, *textFlag, *charsetFlag)
		if err != nil {
			log.Fatalf("Ошибка обработки строки: %v", err)
		}
		fmt.Println(out)
		return
	}

	inputFile := args[0]
	outputFile := args[1]

	// Проверяем существование входного файла
	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		log.Fatalf("Ошибка: входной файл '%s' не существует", inputFile)
	}

	// Выполняем операцию
	startTime := time.Now()

	if *encryptFlag {
		if err := ctx.EncryptFile(inputFile, outputFile); err != nil {
			logger.Error("encrypt failed", err, "input", inputFile)
			log.Fatalf("Ошибка шифрования: %v", err)
		}
		fmt.Printf("Файл успешно зашифрован: %s -> %s\n", inputFile, outputFile)
	} else {
		if err := ctx.DecryptFile(inputFile, outputFile); err != nil {
			logger.Error("decrypt failed", err, "input", inputFile)
			log.Fatalf("Ошибка дешифрования: %v", err)
		}
		fmt.Printf("Файл успешно дешифрован: %s -> %s\n", inputFile, outputFile)
	}

	// Выводим информацию
	duration := time.Since(startTime)
	fileInfo, _ := os.Stat(inputFile)
	fileSize := fileInfo.Size()

	fmt.Printf("\nИнформация:\n")
	fmt.Printf("  Режим: %s\n", cipherMode)
	fmt.Printf("  Набивка: %s\n", paddingMode)
	fmt.Printf("  Параллельная обработка: %v\n", *parallelFlag)
	fmt.Printf("  Размер файла: %d байт\n", fileSize)
	fmt.Printf("  Время выполнения: %v\n", duration)
	fmt.Printf("  Идентификатор ключа (FNV-1a, не секрет): %s\n", cripta.KeyFingerprint(key))
	if cipherMode != cripta.CipherModeECB {
		fmt.Printf("  IV: %x\n", iv)
	}
}

// keySource описывает, откуда берется ключ
type keySource struct {
	hexKey     string
	passphrase string
	keyText    string
	charset    string
}

// getOrGenerateKey возвращает ключ из флагов или генерирует новый.
// Второе значение сообщает, был ли ключ сгенерирован.
func getOrGenerateKey(src keySource, kdf config.KDFConfig, allowGenerate bool) ([]byte, bool, error) {
	switch {
	case src.hexKey != "":
		key, err := parseHexString(src.hexKey, cripta.DESBlockSize)
		return key, false, err
	case src.passphrase != "":
		key, err := keyderiv.DeriveKey(src.passphrase, []byte(kdf.Salt), kdf.Iterations)
		return key, false, err
	case src.keyText != "":
		key, err := textcodec.Encode(src.keyText, src.charset)
		if err != nil {
			return nil, false, err
		}
		if len(key) != cripta.DESBlockSize {
			return nil, false, fmt.Errorf("ключ-строка должна занимать %d байт, получено %d", cripta.DESBlockSize, len(key))
		}
		return key, false, nil
	}

	if !allowGenerate {
		return nil, false, errNoKey
	}

	// Генерируем случайный ключ
	key, err := randomBytes(cripta.DESBlockSize)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка генерации ключа: %w", err)
	}
	return key, true, nil
}

// getOrGenerateIV возвращает IV из флага, выводит его из пароля или генерирует новый
func getOrGenerateIV(ivFlag, passphrase string, kdf config.KDFConfig, allowGenerate bool) ([]byte, bool, error) {
	if ivFlag != "" {
		iv, err := parseHexString(ivFlag, cripta.DESBlockSize)
		return iv, false, err
	}
	if passphrase != "" {
		iv, err := keyderiv.DeriveIV(passphrase, []byte(kdf.Salt), kdf.Iterations)
		return iv, false, err
	}
	if !allowGenerate {
		// Нулевой IV, как в NewCipherContext
		return nil, false, nil
	}

	iv, err := randomBytes(cripta.DESBlockSize)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка генерации IV: %w", err)
	}
	return iv, true, nil
}

func randomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// parseHexString парсит hex строку в байты
func parseHexString(hexStr string, expectedLength int) ([]byte, error) {
	data, err := hex.DecodeString(strings.TrimSpace(hexStr))
	if err != nil {
		return nil, fmt.Errorf("неверный hex формат: %w", err)
	}

	// Проверяем длину
	if len(data) != expectedLength {
		return nil, fmt.Errorf("неверная длина: ожидается %d байт, получено %d", expectedLength, len(data))
	}

	return data, nil
}

// processText шифрует строку в hex или дешифрует hex в строку
func processText(ctx *cripta.CipherContext, encrypt bool, text, charset string) (string, error) {
	if encrypt {
		data, err := textcodec.Encode(text, charset)
		if err != nil {
			return "", err
		}
		encrypted, err := ctx.Encrypt(data)
		if err != nil {
			return "", fmt.Errorf("ошибка шифрования: %w", err)
		}
		return hex.EncodeToString(encrypted), nil
	}

	data, err := hex.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return "", fmt.Errorf("неверный hex формат: %w", err)
	}
	decrypted, err := ctx.Decrypt(data)
	if err != nil {
		return "", fmt.Errorf("ошибка дешифрования: %w", err)
	}
	return textcodec.Decode(decrypted, charset)
}

// printRoundKeys выводит раундовые ключи по 4 бита
func printRoundKeys(cipher *cripta.DESCipher) {
	fmt.Println("Раундовые ключи:")
	for i, roundKey := range cipher.RoundKeys() {
		fmt.Printf("  K%-2d %s\n", i+1, cripta.FormatBits(roundKey))
	}
}

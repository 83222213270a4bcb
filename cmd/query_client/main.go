package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/TheFoister/kgm-checker/module/query/domain"
)

type requestMessage struct {
	Plate string `json:"plaka"`
}

func newRequestID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <plate>\n", os.Args[0])
		os.Exit(1)
	}

	plate := domain.NormalizePlate(os.Args[1])
	if plate == "" {
		fmt.Fprintf(os.Stderr, "error: %s\n", domain.MsgPlateRequired)
		os.Exit(1)
	}

	broker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		broker = v
	}

	requestID := newRequestID()
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("kgm-query-client-" + requestID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	results := make(chan []byte, 1)
	resultTopic := fmt.Sprintf("kgm/query/%s/result", requestID)
	token := client.Subscribe(resultTopic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		results <- msg.Payload()
	})
	if token.Wait() && token.Error() != nil {
		log.Fatalf("subscribe: %v", token.Error())
	}

	payload, _ := json.Marshal(requestMessage{Plate: plate})
	topic := fmt.Sprintf("kgm/query/%s/request", requestID)
	token = client.Publish(topic, 1, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		log.Fatalf("publish: %v", err)
	}

	log.Printf("published %s to %s, waiting up to 3m (30-120s is normal)...", plate, topic)

	select {
	case body := <-results:
		printResult(body)
	case <-time.After(3 * time.Minute):
		log.Fatalf("no result for %s", plate)
	}
}

func printResult(body []byte) {
	res, err := domain.DecodeResult(body)
	if err != nil {
		log.Fatalf("decode result: %v", err)
	}

	switch r := res.(type) {
	case domain.Success:
		o := r.Data.Overview
		fmt.Printf("%s  (sorgu: %s)\n", r.Data.Plate, r.Data.QueriedAt)
		fmt.Printf("Genel Toplam:             %s\n", o.GrandTotal)
		fmt.Printf("Ödenecek Tutar (KGM):     %s\n", o.PayableKGM)
		fmt.Printf("Ödenecek Tutar (YİD):     %s\n", o.PayableYID)
		if r.Data.HasNoDebt() {
			fmt.Println(domain.MsgNoDebt)
		}
	case domain.Failure:
		msg := r.Message
		if msg == "" {
			msg = domain.MsgDefaultError
		}
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(2)
	}
}

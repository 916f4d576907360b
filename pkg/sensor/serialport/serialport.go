// Package serialport acquires accelerometer samples from an earbud dev-kit
// that streams "x,y,z" lines over a serial bridge.
package serialport

import (
	"bufio"
	"fmt"
	"sync"

	log "github.com/echocat/slf4g"
	"go.bug.st/serial"

	"github.com/blaubaer/zen-master/pkg/sensor"
)

type Serialport struct {
	conf *Configuration

	port     serial.Port
	portName string
	done     chan struct{}
	finished sync.WaitGroup
	mutex    sync.Mutex
}

func (this *Serialport) Initialize(conf *Configuration) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.conf = conf
	this.portName = conf.Port

	if this.portName == "" {
		candidates, err := serial.GetPortsList()
		if err != nil {
			return fmt.Errorf("cannot enumerate serial ports: %w", err)
		}
		if len(candidates) > 0 {
			this.portName = candidates[0]
			log.With("port", this.portName).
				Info("No serial port configured. Using the first available one.")
		}
	}

	return nil
}

func (this *Serialport) Dispose() error {
	return this.Unsubscribe()
}

func (this *Serialport) Available() bool {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	return this.portName != ""
}

func (this *Serialport) Subscribe(consumer func(sensor.Sample)) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.port != nil {
		return fmt.Errorf("already subscribed to serial port %q", this.portName)
	}
	if this.portName == "" {
		return fmt.Errorf("no serial port available")
	}

	mode := &serial.Mode{
		BaudRate: this.conf.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(this.portName, mode)
	if err != nil {
		return fmt.Errorf("cannot open serial port %q: %w", this.portName, err)
	}

	this.port = port
	this.done = make(chan struct{})
	this.finished.Add(1)
	go this.consume(port, this.done, consumer)

	return nil
}

func (this *Serialport) consume(port serial.Port, done chan struct{}, consumer func(sensor.Sample)) {
	defer this.finished.Done()

	scan := bufio.NewScanner(port)
	for scan.Scan() {
		select {
		case <-done:
			return
		default:
		}

		sample, ok := sensor.ParseSample(scan.Text())
		if !ok {
			// Firmware banners and garbled lines are expected noise.
			continue
		}
		consumer(sample)
	}

	if err := scan.Err(); err != nil {
		select {
		case <-done:
			// Closing the port while reading surfaces as an error here.
		default:
			log.WithError(err).
				With("port", this.portName).
				Warn("Serial sample stream ended unexpectedly.")
		}
	}
}

func (this *Serialport) Unsubscribe() error {
	this.mutex.Lock()
	port := this.port
	done := this.done
	this.port = nil
	this.done = nil
	this.mutex.Unlock()

	if port == nil {
		return nil
	}

	close(done)
	err := port.Close()
	this.finished.Wait()

	if err != nil {
		return fmt.Errorf("cannot close serial port %q: %w", this.portName, err)
	}
	return nil
}

func (this *Serialport) GetType() sensor.Type {
	return sensor.TypeSerial
}

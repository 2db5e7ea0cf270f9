package httpclient

import (
	"ManaLedger/internal/config"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// NewHTTPClient 通用HTTP客户端构建方法（支持代理、超时）。
// 注意：关闭transport层的透明解压，批量数据必须拿到原始字节后按魔数自行解压
//（部分源站声明gzip实际返回明文，反之亦然，Content-Encoding头不可信）。
func NewHTTPClient(cfg *config.ProviderConfig, logger *logrus.Logger) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     30 * time.Second,
		DisableCompression:  true,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	// 配置代理
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			logger.WithError(err).WithField("proxy", cfg.Proxy).Warn("代理地址解析失败，将不使用代理")
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
			logger.WithField("proxy", cfg.Proxy).Info("HTTP客户端已配置代理")
		}
	}

	return &http.Client{
		Timeout:   time.Duration(cfg.Timeout) * time.Second,
		Transport: transport,
	}
}

// DownloadBytes 下载完整响应体为字节缓冲区（不边下边解析），按量打进度日志。
// progressStepMB<=0 时不打进度。传输错误与非2xx状态均为硬失败，本层不做重试。
func DownloadBytes(ctx context.Context, client *http.Client, rawURL, label string, progressStepMB int, logger *logrus.Logger) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("构造%s下载请求失败: %w", label, err)
	}
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("下载%s失败: %w", label, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("下载%s失败: 状态码%d", label, resp.StatusCode)
	}

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}

	step := int64(progressStepMB) * 1024 * 1024
	chunk := make([]byte, 256*1024)
	var received, nextTick int64
	nextTick = step
	for {
		n, readErr := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			received += int64(n)
			if step > 0 && received >= nextTick {
				logger.Infof("  %s 已接收 %.2f MB", label, float64(received)/1024/1024)
				nextTick += step
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("读取%s响应体失败: %w", label, readErr)
		}
	}

	logger.Infof("  %s 下载完成（%.2f MB）", label, float64(received)/1024/1024)
	return buf.Bytes(), nil
}

// IsGzip 按魔数判断缓冲区是否为gzip压缩内容（0x1f 0x8b，以此为准而非响应头）
func IsGzip(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0x1f && buf[1] == 0x8b
}

// DecodeJSON 魔数嗅探后解析JSON：gzip内容先解压再解析，明文直接解析。
// 解压/解析失败均为硬失败向上传播（重试属于加载层，不属于下载层）。
func DecodeJSON(buf []byte, v interface{}) error {
	data := buf
	if IsGzip(buf) {
		gzReader, err := gzip.NewReader(bytes.NewReader(buf))
		if err != nil {
			return fmt.Errorf("gzip解压失败: %w", err)
		}
		defer gzReader.Close()
		data, err = io.ReadAll(gzReader)
		if err != nil {
			return fmt.Errorf("gzip解压失败: %w", err)
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("解析JSON失败: %w", err)
	}
	return nil
}

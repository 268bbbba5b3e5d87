// sentiric-contacts-service/internal/server/grpc.go
package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"os"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"

	"github.com/sentiric/sentiric-contacts-service/internal/config"
	"github.com/sentiric/sentiric-contacts-service/internal/logger"
)

// ServiceName is the name reported through the gRPC health service.
const ServiceName = "sentiric.contacts.v1.ContactsService"

// GrpcServer exposes the standard health and reflection services.
type GrpcServer struct {
	srv    *grpc.Server
	health *health.Server
	log    zerolog.Logger
}

// NewGrpcServer builds the server. Mutual TLS is used when the certificate
// paths are configured.
func NewGrpcServer(cfg *config.Config, log zerolog.Logger) (*GrpcServer, error) {
	opts := []grpc.ServerOption{grpc.UnaryInterceptor(traceInterceptor(log))}
	if cfg.TLSEnabled() {
		creds, err := loadServerTLS(cfg.CertPath, cfg.KeyPath, cfg.CaPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, grpc.Creds(creds))
	} else {
		log.Warn().Msg("gRPC TLS yapılandırılmadı, şifresiz dinlenecek")
	}

	srv := grpc.NewServer(opts...)
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &GrpcServer{srv: srv, health: hs, log: log}, nil
}

// SetServing flips the health status of the service.
func (g *GrpcServer) SetServing(ok bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		status = healthpb.HealthCheckResponse_SERVING
	}
	g.health.SetServingStatus("", status)
	g.health.SetServingStatus(ServiceName, status)
}

// Listen serves on the given TCP port until Stop.
func (g *GrpcServer) Listen(port string) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", port))
	if err != nil {
		return fmt.Errorf("gRPC portu dinlenemedi: %w", err)
	}
	g.log.Info().Str("port", port).Msg("gRPC sunucusu dinleniyor...")
	return g.Serve(lis)
}

// Serve serves on lis until Stop.
func (g *GrpcServer) Serve(lis net.Listener) error {
	if err := g.srv.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("gRPC sunucusu başlatılamadı: %w", err)
	}
	return nil
}

// Stop reports NOT_SERVING and drains in-flight calls.
func (g *GrpcServer) Stop() {
	g.health.Shutdown()
	g.srv.GracefulStop()
}

func traceInterceptor(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx = logger.WithTraceID(ctx, traceIDFromMetadata(ctx))
		l := logger.ContextLogger(ctx, log)
		l.Debug().
			Str("method", info.FullMethod).
			Msg("gRPC isteği alındı")
		return handler(ctx, req)
	}
}

func traceIDFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get("x-trace-id"); len(values) > 0 {
		return values[0]
	}
	return ""
}

func loadServerTLS(certPath, keyPath, caPath string) (credentials.TransportCredentials, error) {
	certificate, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("sunucu sertifikası yüklenemedi: %w", err)
	}
	caCert, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("CA sertifikası okunamadı: %w", err)
	}
	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("CA sertifikası havuza eklenemedi")
	}
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{certificate},
		ClientAuth:   tls.RequireAndVerifyClientCert,
		ClientCAs:    caPool,
	}
	return credentials.NewTLS(tlsConfig), nil
}
